package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type postfixIncrement struct{}

func (d *postfixIncrement) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-INCREMENT-DECREMENT",
		Title:       "Use prefix increment in loop updates",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "`i++` keeps a copy of the old value that a loop update never uses. `++i` does not.",
		Remediation: "Write `++i` or `--i`, inside an unchecked block when overflow is impossible.",
	}
}

func (d *postfixIncrement) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		loops, err := extract.ForLoops(f.unit)
		if err != nil {
			return err
		}
		for _, loop := range loops {
			u, ok := extract.Unwrap(loop.Update).(*solidity.UnaryOperation)
			if !ok || u.Prefix {
				continue
			}
			if u.Op == "++" || u.Op == "--" {
				f.flag(u)
			}
		}
		return nil
	})
}
