package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// eventIndexing flags events that leave indexable topics unused. Indexed
// value-type parameters are cheaper to emit than data words, so an event
// should index every eligible parameter up to the topic limit.
type eventIndexing struct {
	maxTopics int
}

func (d *eventIndexing) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-EVENT-INDEXING",
		Title:       "Event is not properly indexed",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "Indexing an event parameter stores it as a topic, which costs less gas than storing it in the data section. An event can index up to three parameters.",
		Remediation: "Mark up to three non-array parameters `indexed`.",
	}
}

func (d *eventIndexing) Find(src Source) (*model.Outcome, error) {
	limit := d.maxTopics
	if limit <= 0 {
		limit = DefaultMaxIndexedTopics
	}
	return scan(d.Meta(), src, func(f *file) error {
		events, err := extract.Events(f.unit)
		if err != nil {
			return err
		}
		for _, ev := range events {
			if underIndexed(ev, limit) {
				f.flag(ev)
			}
		}
		return nil
	})
}

func underIndexed(ev *solidity.EventDefinition, limit int) bool {
	indexed, nonArray := 0, 0
	for _, p := range ev.Params {
		if p.Indexed {
			indexed++
		}
		if _, isArray := p.Type.(*solidity.ArrayTypeName); !isArray {
			nonArray++
		}
	}
	if nonArray >= limit {
		return indexed < limit
	}
	return indexed != nonArray
}
