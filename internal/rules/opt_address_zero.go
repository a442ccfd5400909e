package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

type addressZero struct{}

func (d *addressZero) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-ADDRESS-ZERO",
		Title:       "Use assembly to check for address(0)",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "Comparing against address(0) in assembly skips the masking the compiler inserts.",
		Remediation: "Use `assembly { if iszero(addr) { ... } }`.",
	}
}

func (d *addressZero) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		ops, err := extract.BinaryOps(f.unit)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if !isComparison(op) {
				continue
			}
			if isAddressCast(op.Left, isZero) || isAddressCast(op.Right, isZero) {
				f.flag(op)
			}
		}
		return nil
	})
}
