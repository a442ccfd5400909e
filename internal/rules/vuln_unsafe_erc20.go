package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

// erc20Arity maps the raw token calls to their ERC20 argument count, which
// tells them apart from `payable(to).transfer(amount)`.
var erc20Arity = map[string]int{
	"transfer":     2,
	"transferFrom": 3,
	"approve":      2,
}

type unsafeERC20 struct{}

func (d *unsafeERC20) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "VULN-UNSAFE-ERC20",
		Title:       "Unsafe ERC20 operation",
		Category:    model.CategoryVulnerability,
		Severity:    model.SeverityMedium,
		Description: "Some tokens return false instead of reverting, and some return nothing at all. Raw transfer, transferFrom and approve calls do not handle either case.",
		Remediation: "Use OpenZeppelin SafeERC20 (`safeTransfer`, `safeTransferFrom`, `forceApprove`).",
	}
}

func (d *unsafeERC20) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		calls, err := extract.Calls(f.unit)
		if err != nil {
			return err
		}
		for _, c := range calls {
			if calleeTarget(c) == nil {
				continue
			}
			if n, ok := erc20Arity[callName(c)]; ok && len(c.Args) == n {
				f.flag(c)
			}
		}
		return nil
	})
}
