package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type cacheArrayLength struct{}

func (d *cacheArrayLength) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-CACHE-ARRAY-LENGTH",
		Title:       "Cache array length outside of loop",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "The loop condition reads `.length` on every iteration. For storage arrays that is an SLOAD each time.",
		Remediation: "Read the length into a local before the loop.",
	}
}

func (d *cacheArrayLength) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		loops, err := extract.ForLoops(f.unit)
		if err != nil {
			return err
		}
		for _, loop := range loops {
			if loop.Cond == nil {
				continue
			}
			accesses, err := extract.Within[*solidity.MemberAccess](loop.Cond)
			if err != nil {
				return err
			}
			for _, ma := range accesses {
				if ma.Member == "length" {
					f.flag(ma)
				}
			}
		}
		return nil
	})
}
