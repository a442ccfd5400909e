package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// controlledDelegatecall flags delegatecall on an address taken straight from
// a function parameter (SWC-112).
type controlledDelegatecall struct{}

func (d *controlledDelegatecall) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "VULN-DELEGATECALL",
		Title:       "Delegatecall to caller-supplied address",
		Category:    model.CategoryVulnerability,
		Severity:    model.SeverityHigh,
		Description: "delegatecall runs foreign code against this contract's storage. A caller who picks the target can take over the contract.",
		Remediation: "Delegate only to trusted, fixed implementations or restrict the function to administrators.",
		References:  []string{"SWC-112"},
	}
}

func (d *controlledDelegatecall) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		funcs, err := extract.Functions(f.unit)
		if err != nil {
			return err
		}
		for _, fn := range funcs {
			if fn.Body == nil {
				continue
			}
			params := map[string]bool{}
			for _, p := range fn.Params {
				if p.Name != nil {
					params[p.Name.Name] = true
				}
			}
			if len(params) == 0 {
				continue
			}
			calls, err := extract.Within[*solidity.FunctionCall](fn.Body)
			if err != nil {
				return err
			}
			for _, c := range calls {
				if callName(c) != "delegatecall" {
					continue
				}
				if id, ok := extract.Unwrap(calleeTarget(c)).(*solidity.Identifier); ok && params[id.Name] {
					f.flag(c)
				}
			}
		}
		return nil
	})
}
