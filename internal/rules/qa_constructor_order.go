package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type constructorOrder struct{}

func (d *constructorOrder) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "QA-CONSTRUCTOR-ORDER",
		Title:       "Constructor is not the first function",
		Category:    model.CategoryQuality,
		Severity:    model.SeverityLow,
		Description: "The Solidity style guide places the constructor before all other functions.",
		Remediation: "Move the constructor above the other functions.",
		References:  []string{"https://docs.soliditylang.org/en/latest/style-guide.html#order-of-functions"},
	}
}

func (d *constructorOrder) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		contracts, err := extract.Contracts(f.unit)
		if err != nil {
			return err
		}
		for _, c := range contracts {
			for i, fn := range extract.FunctionsIn(c) {
				if fn.Kind == solidity.FuncConstructor && i > 0 {
					f.flag(fn)
				}
			}
		}
		return nil
	})
}
