package rules

import (
	"fmt"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// Source is the read-only view of parsed files a rule runs over.
type Source interface {
	Paths() []string
	Unit(path string) *solidity.SourceUnit
}

// Rule is one detection heuristic. Find either returns a complete outcome or
// an error, never both. Rules hold no state between calls.
type Rule interface {
	Meta() model.RuleMeta
	Find(src Source) (*model.Outcome, error)
}

// file is the per-file view handed to a rule body.
type file struct {
	path string
	unit *solidity.SourceUnit
	out  *model.Outcome
}

// flag records n as a finding, using its source text as the snippet.
func (f *file) flag(n solidity.Node) {
	f.out.Push(f.path, n.Location(), f.unit.Text(n))
}

// scan runs body once per file in path order and collects the findings.
func scan(meta model.RuleMeta, src Source, body func(f *file) error) (*model.Outcome, error) {
	out := model.NewOutcome(meta)
	for _, path := range src.Paths() {
		unit := src.Unit(path)
		if unit == nil {
			return nil, fmt.Errorf("%w: no tree for %s", model.ErrExtraction, path)
		}
		if err := body(&file{path: path, unit: unit, out: out}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
