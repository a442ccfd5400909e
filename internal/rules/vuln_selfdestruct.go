package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// unprotectedSelfdestruct flags selfdestruct calls in functions that carry no
// modifier and never compare msg.sender (SWC-106).
type unprotectedSelfdestruct struct{}

func (d *unprotectedSelfdestruct) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "VULN-UNPROTECTED-SELFDESTRUCT",
		Title:       "Unprotected selfdestruct",
		Category:    model.CategoryVulnerability,
		Severity:    model.SeverityHigh,
		Description: "A function that destroys the contract is reachable without any caller check.",
		Remediation: "Restrict the function with an access-control modifier or remove selfdestruct.",
		References:  []string{"SWC-106"},
	}
}

func (d *unprotectedSelfdestruct) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		funcs, err := extract.Functions(f.unit)
		if err != nil {
			return err
		}
		for _, fn := range funcs {
			if fn.Body == nil || len(fn.Modifiers) > 0 {
				continue
			}
			calls, err := extract.Within[*solidity.FunctionCall](fn.Body)
			if err != nil {
				return err
			}
			var kills []*solidity.FunctionCall
			for _, c := range calls {
				if isCallTo(c, "selfdestruct") || isCallTo(c, "suicide") {
					kills = append(kills, c)
				}
			}
			if len(kills) == 0 {
				continue
			}
			guarded, err := comparesSender(fn.Body)
			if err != nil {
				return err
			}
			if guarded {
				continue
			}
			for _, c := range kills {
				f.flag(c)
			}
		}
		return nil
	})
}

func comparesSender(body *solidity.Block) (bool, error) {
	ops, err := extract.Within[*solidity.BinaryOperation](body)
	if err != nil {
		return false, err
	}
	for _, op := range ops {
		if isComparison(op) && (isMember(op.Left, "msg", "sender") || isMember(op.Right, "msg", "sender")) {
			return true, nil
		}
	}
	return false, nil
}
