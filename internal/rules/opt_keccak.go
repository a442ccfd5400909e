package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

type solidityKeccak struct{}

func (d *solidityKeccak) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-SOLIDITY-KECCAK",
		Title:       "Hash in assembly instead of keccak256()",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "Calling keccak256 from Solidity encodes its input into fresh memory first. Hashing in assembly can reuse scratch space.",
		Remediation: "Use `assembly { h := keccak256(ptr, len) }` on hot paths.",
	}
}

func (d *solidityKeccak) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		calls, err := extract.Calls(f.unit)
		if err != nil {
			return err
		}
		for _, c := range calls {
			if isCallTo(c, "keccak256") {
				f.flag(c)
			}
		}
		return nil
	})
}
