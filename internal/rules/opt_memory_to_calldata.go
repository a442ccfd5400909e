package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

type memoryToCalldata struct{}

func (d *memoryToCalldata) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-MEMORY-TO-CALLDATA",
		Title:       "Use calldata for read-only external parameters",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "A memory parameter of an external function is copied out of calldata on entry.",
		Remediation: "Declare the parameter calldata when the function does not modify it.",
	}
}

func (d *memoryToCalldata) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		funcs, err := extract.Functions(f.unit)
		if err != nil {
			return err
		}
		for _, fn := range funcs {
			if fn.Visibility != "external" {
				continue
			}
			for _, p := range fn.Params {
				if p.Storage == "memory" {
					f.flag(p)
				}
			}
		}
		return nil
	})
}
