package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

// exactPinPattern matches a version constraint that names one compiler.
const exactPinPattern = `^=?\s*v?\d+\.\d+\.\d+$`

// floatingPragma flags `pragma solidity` directives that accept more than one
// compiler version (SWC-103).
type floatingPragma struct {
	pattern string
}

func (d *floatingPragma) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "VULN-FLOATING-PRAGMA",
		Title:       "Floating pragma solidity version",
		Category:    model.CategoryVulnerability,
		Severity:    model.SeverityMedium,
		Description: "Version ranges let different builds use different compilers, and with them different bugs and optimizer behavior.",
		Remediation: "Pin an exact compiler version, e.g. `pragma solidity 0.8.20;`.",
		References:  []string{"SWC-103"},
	}
}

func (d *floatingPragma) Find(src Source) (*model.Outcome, error) {
	pattern := d.pattern
	if pattern == "" {
		pattern = exactPinPattern
	}
	exact, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: version pin: %v", model.ErrPattern, err)
	}
	return scan(d.Meta(), src, func(f *file) error {
		pragmas, err := extract.Pragmas(f.unit)
		if err != nil {
			return err
		}
		for _, p := range pragmas {
			if p.Name != "solidity" {
				continue
			}
			if !exact.MatchString(strings.TrimSpace(p.Value)) {
				f.flag(p)
			}
		}
		return nil
	})
}
