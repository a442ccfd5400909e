package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
)

// Policy decides what a module does when one of its rules fails.
type Policy int

const (
	// Isolate records the failure and runs the remaining rules.
	Isolate Policy = iota
	// FailFast stops the module, and the run, at the first failure.
	FailFast
)

func (p Policy) String() string {
	if p == FailFast {
		return "fail-fast"
	}
	return "isolate"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "isolate":
		return Isolate, nil
	case "fail-fast", "failfast":
		return FailFast, nil
	}
	return Isolate, fmt.Errorf("unknown failure policy %q", s)
}

// RuleResult is what one rule produced in one run: an outcome on success,
// a *model.RuleError on failure.
type RuleResult struct {
	Rule    model.RuleMeta
	Outcome *model.Outcome
	Err     error
	Elapsed time.Duration
}

func (r RuleResult) Failed() bool { return r.Err != nil }

// Module runs the rules of one category, strictly in declaration order.
type Module struct {
	category model.Category
	rules    []rules.Rule
	policy   Policy
	logger   hclog.Logger

	outcomes []*model.Outcome
}

type ModuleOption func(*Module)

func WithModulePolicy(p Policy) ModuleOption {
	return func(m *Module) { m.policy = p }
}

func WithModuleLogger(l hclog.Logger) ModuleOption {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModule builds a module over rs. An empty rule list is valid and runs
// to an empty result.
func NewModule(category model.Category, rs []rules.Rule, opts ...ModuleOption) *Module {
	m := &Module{
		category: category,
		rules:    append([]rules.Rule(nil), rs...),
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Category() model.Category { return m.category }

func (m *Module) Rules() []rules.Rule { return append([]rules.Rule(nil), m.rules...) }

func (m *Module) Policy() Policy { return m.policy }

// Outcomes returns the successful outcomes of the last run, in rule order.
func (m *Module) Outcomes() []*model.Outcome {
	return append([]*model.Outcome(nil), m.outcomes...)
}

// Run executes every rule against src and returns one result per rule that
// ran. Under FailFast the first failure ends the run and is returned as a
// *model.RuleError, with the results gathered up to and including it. Under
// Isolate all rules run and the returned error joins every failure.
// Cancelling ctx stops scheduling further rules.
//
// Under FailFast, Outcomes holds exactly one outcome per rule that completed
// before the first failure. Under Isolate it holds one per successful rule,
// including rules that ran after a failure.
func (m *Module) Run(ctx context.Context, src rules.Source) ([]RuleResult, error) {
	return m.run(ctx, src, m.logger)
}

func (m *Module) run(ctx context.Context, src rules.Source, logger hclog.Logger) ([]RuleResult, error) {
	m.outcomes = nil
	logger = logger.With("category", string(m.category))
	results := make([]RuleResult, 0, len(m.rules))
	var errs []error
	for _, rule := range m.rules {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res := m.runRule(rule, src)
		results = append(results, res)
		if res.Failed() {
			logger.Warn("rule failed", "rule", res.Rule.ID, "error", res.Err)
			if m.policy == FailFast {
				return results, res.Err
			}
			errs = append(errs, res.Err)
			continue
		}
		m.outcomes = append(m.outcomes, res.Outcome)
		logger.Debug("rule finished", "rule", res.Rule.ID, "findings", res.Outcome.Len(), "elapsed", res.Elapsed)
	}
	return results, errors.Join(errs...)
}

func (m *Module) runRule(rule rules.Rule, src rules.Source) (res RuleResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = nil
			res.Err = &model.RuleError{RuleID: res.Rule.ID, Category: m.category, Err: fmt.Errorf("panic: %v", r)}
		}
		res.Elapsed = time.Since(start)
	}()
	res.Rule = rule.Meta()
	out, err := rule.Find(src)
	if err != nil {
		res.Err = &model.RuleError{RuleID: res.Rule.ID, Category: m.category, Err: err}
		return res
	}
	if out == nil {
		out = model.NewOutcome(res.Rule)
	}
	res.Outcome = out
	return res
}
