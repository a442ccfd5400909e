package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type addressBalance struct{}

func (d *addressBalance) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-ADDRESS-BALANCE",
		Title:       "Use selfbalance() instead of address(this).balance",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "The SELFBALANCE opcode is cheaper than BALANCE on the contract's own address.",
		Remediation: "Read the balance with `assembly { bal := selfbalance() }`.",
	}
}

func (d *addressBalance) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		accesses, err := extract.MemberAccesses(f.unit)
		if err != nil {
			return err
		}
		for _, ma := range accesses {
			if ma.Member != "balance" {
				continue
			}
			if isAddressCast(ma.Expr, func(arg solidity.Expression) bool { return isIdent(arg, "this") }) {
				f.flag(ma)
			}
		}
		return nil
	})
}
