package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

type publicConstant struct{}

func (d *publicConstant) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-PRIVATE-CONSTANT",
		Title:       "Mark constants private",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "A public constant generates a getter, which grows deployment bytecode.",
		Remediation: "Declare the constant private and expose it only if needed.",
	}
}

func (d *publicConstant) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		vars, err := extract.StateVariables(f.unit)
		if err != nil {
			return err
		}
		for _, v := range vars {
			if v.Constant && v.Visibility == "public" {
				f.flag(v)
			}
		}
		return nil
	})
}
