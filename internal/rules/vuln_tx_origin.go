package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
)

// txOrigin flags comparisons against tx.origin, the shape authorization
// checks take in require, assert and if conditions (SWC-115).
type txOrigin struct{}

func (d *txOrigin) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "VULN-TX-ORIGIN",
		Title:       "tx.origin used for authorization",
		Category:    model.CategoryVulnerability,
		Severity:    model.SeverityHigh,
		Description: "tx.origin is the externally owned account that started the transaction. A malicious contract the owner calls passes the check.",
		Remediation: "Compare msg.sender instead.",
		References:  []string{"SWC-115"},
	}
}

func (d *txOrigin) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		ops, err := extract.BinaryOps(f.unit)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if !isComparison(op) {
				continue
			}
			if isMember(op.Left, "tx", "origin") || isMember(op.Right, "tx", "origin") {
				f.flag(op)
			}
		}
		return nil
	})
}
