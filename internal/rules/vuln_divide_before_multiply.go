package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type divideBeforeMultiply struct{}

func (d *divideBeforeMultiply) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "VULN-DIVIDE-BEFORE-MULTIPLY",
		Title:       "Division before multiplication",
		Category:    model.CategoryVulnerability,
		Severity:    model.SeverityMedium,
		Description: "Integer division truncates, so dividing first and multiplying the result loses precision.",
		Remediation: "Multiply before dividing, watching for overflow.",
	}
}

func (d *divideBeforeMultiply) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		ops, err := extract.BinaryOps(f.unit)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if op.Op != "*" {
				continue
			}
			if div, ok := extract.Unwrap(op.Left).(*solidity.BinaryOperation); ok && div.Op == "/" {
				f.flag(op)
			}
		}
		return nil
	})
}
