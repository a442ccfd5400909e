package rules

import (
	"github.com/0x0918/sstan/internal/model"
)

// Registry keeps rules in registration order. The first rule registered
// under an id wins lookups.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

func NewRegistry() *Registry { return &Registry{byID: map[string]Rule{}} }

func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
	if _, ok := r.byID[rule.Meta().ID]; !ok {
		r.byID[rule.Meta().ID] = rule
	}
}

// RegisterBuiltin adds every built-in rule, grouped by category.
func (r *Registry) RegisterBuiltin(th Thresholds) {
	th = th.WithDefaults()
	// vulnerabilities
	r.Register(&floatingPragma{})
	r.Register(&unprotectedSelfdestruct{})
	r.Register(&unsafeERC20{})
	r.Register(&txOrigin{})
	r.Register(&divideBeforeMultiply{})
	r.Register(&controlledDelegatecall{})
	// optimizations
	r.Register(&eventIndexing{maxTopics: th.MaxIndexedTopics})
	r.Register(&addressBalance{})
	r.Register(&addressZero{})
	r.Register(&boolEqualsBool{})
	r.Register(&cacheArrayLength{})
	r.Register(&postfixIncrement{})
	r.Register(&multipleRequire{})
	r.Register(&publicConstant{})
	r.Register(&shiftMath{})
	r.Register(&shortRevertString{maxBytes: th.MaxRevertStringBytes})
	r.Register(&memoryToCalldata{})
	r.Register(&solidityKeccak{})
	// quality
	r.Register(&constructorOrder{})
	r.Register(&privateVarsUnderscore{})
	r.Register(&privateFuncUnderscore{})
	r.Register(&publicFuncUnderscore{})
	r.Register(&emptyBlock{})
}

func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Category returns the rules of one category in registration order.
func (r *Registry) Category(c model.Category) []Rule {
	var out []Rule
	for _, rule := range r.rules {
		if rule.Meta().Category == c {
			out = append(out, rule)
		}
	}
	return out
}

func (r *Registry) Lookup(id string) (Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// Builtin returns a registry holding the built-in rules.
func Builtin(th Thresholds) *Registry {
	r := NewRegistry()
	r.RegisterBuiltin(th)
	return r
}
