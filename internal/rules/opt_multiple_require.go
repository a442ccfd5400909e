package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type multipleRequire struct{}

func (d *multipleRequire) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-MULTIPLE-REQUIRE",
		Title:       "Split require statements that use &&",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "`require(a && b)` costs more than two separate requires.",
		Remediation: "Use one require per condition.",
	}
}

func (d *multipleRequire) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		calls, err := extract.Calls(f.unit)
		if err != nil {
			return err
		}
		for _, c := range calls {
			if !isCallTo(c, "require") || len(c.Args) == 0 {
				continue
			}
			if cond, ok := extract.Unwrap(c.Args[0]).(*solidity.BinaryOperation); ok && cond.Op == "&&" {
				f.flag(c)
			}
		}
		return nil
	})
}
