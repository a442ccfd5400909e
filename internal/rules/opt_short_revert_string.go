package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type shortRevertString struct {
	maxBytes int
}

func (d *shortRevertString) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-SHORT-REVERT-STRING",
		Title:       "Revert reason longer than 32 bytes",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "Each extra 32 bytes of revert reason costs another memory word and more deployment bytecode.",
		Remediation: "Shorten the reason or switch to custom errors.",
	}
}

func (d *shortRevertString) Find(src Source) (*model.Outcome, error) {
	limit := d.maxBytes
	if limit <= 0 {
		limit = DefaultMaxRevertStringBytes
	}
	return scan(d.Meta(), src, func(f *file) error {
		calls, err := extract.Calls(f.unit)
		if err != nil {
			return err
		}
		for _, c := range calls {
			var reason solidity.Expression
			switch {
			case isCallTo(c, "require") && len(c.Args) == 2:
				reason = c.Args[1]
			case isCallTo(c, "revert") && len(c.Args) == 1:
				reason = c.Args[0]
			default:
				continue
			}
			lit, ok := extract.Unwrap(reason).(*solidity.Literal)
			if !ok || (lit.Kind != solidity.LitString && lit.Kind != solidity.LitUnicode) {
				continue
			}
			if len(lit.Value) > limit {
				f.flag(lit)
			}
		}
		return nil
	})
}
