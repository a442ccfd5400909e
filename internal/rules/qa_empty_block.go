package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type emptyBlock struct{}

func (d *emptyBlock) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "QA-EMPTY-BLOCK",
		Title:       "Function with an empty body",
		Category:    model.CategoryQuality,
		Severity:    model.SeverityLow,
		Description: "An empty non-virtual function does nothing and is usually unfinished code.",
		Remediation: "Implement the function, remove it, or mark it virtual if it is a hook.",
	}
}

func (d *emptyBlock) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		funcs, err := extract.Functions(f.unit)
		if err != nil {
			return err
		}
		for _, fn := range funcs {
			if fn.Kind != solidity.FuncFunction || fn.Virtual || fn.Body == nil {
				continue
			}
			if len(fn.Body.Statements) == 0 {
				f.flag(fn)
			}
		}
		return nil
	})
}
