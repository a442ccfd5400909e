package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

type boolEqualsBool struct{}

func (d *boolEqualsBool) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-BOOL-EQUALS-BOOL",
		Title:       "Comparison against a boolean literal",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "`x == true` costs an extra comparison over using `x` directly.",
		Remediation: "Use `x` or `!x`.",
	}
}

func (d *boolEqualsBool) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		ops, err := extract.BinaryOps(f.unit)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if isComparison(op) && (isBoolLiteral(op.Left) || isBoolLiteral(op.Right)) {
				f.flag(op)
			}
		}
		return nil
	})
}
