package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
	"github.com/0x0918/sstan/internal/source"
)

// Engine runs the vulnerability, optimization and quality modules over one
// source collection.
type Engine struct {
	collection *source.Collection
	modules    []*Module
	policy     Policy
	logger     hclog.Logger
	sourceOpts source.Options
	now        func() time.Time
}

type Option func(*Engine)

// WithPolicy sets the failure policy of every module.
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSourceOptions configures how New discovers and parses files.
func WithSourceOptions(o source.Options) Option {
	return func(e *Engine) { e.sourceOpts = o }
}

// New loads every .sol file under path and prepares one module per
// category. Loading fails as a whole if any file does not parse.
func New(ctx context.Context, path string, vulnerabilities, optimizations, quality []rules.Rule, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	so := e.sourceOpts
	if so.Logger == nil {
		so.Logger = e.logger.Named("source")
	}
	col, err := source.Load(ctx, path, so)
	if err != nil {
		return nil, err
	}
	e.init(col, vulnerabilities, optimizations, quality)
	return e, nil
}

// NewFromCollection is New for callers that already hold parsed sources.
func NewFromCollection(col *source.Collection, vulnerabilities, optimizations, quality []rules.Rule, opts ...Option) *Engine {
	e := newEngine(opts)
	if col == nil {
		col = source.NewCollection()
	}
	e.init(col, vulnerabilities, optimizations, quality)
	return e
}

func newEngine(opts []Option) *Engine {
	e := &Engine{logger: hclog.NewNullLogger(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) init(col *source.Collection, vulnerabilities, optimizations, quality []rules.Rule) {
	e.collection = col
	byCategory := map[model.Category][]rules.Rule{
		model.CategoryVulnerability: vulnerabilities,
		model.CategoryOptimization:  optimizations,
		model.CategoryQuality:       quality,
	}
	for _, c := range model.Categories {
		e.modules = append(e.modules, NewModule(c, byCategory[c],
			WithModulePolicy(e.policy),
			WithModuleLogger(e.logger.Named(string(c))),
		))
	}
}

func (e *Engine) Collection() *source.Collection { return e.collection }

// Module returns the module of category c, never nil for a known category.
func (e *Engine) Module(c model.Category) *Module {
	for _, m := range e.modules {
		if m.Category() == c {
			return m
		}
	}
	return nil
}

// Run is the state of one engine run. It is created by Engine.Run and
// lives only as long as that call.
type Run struct {
	ID      string
	Started time.Time
	Source  *source.Collection
	Logger  hclog.Logger
}

func (e *Engine) newRun() *Run {
	id := uuid.NewString()
	return &Run{
		ID:      id,
		Started: e.now(),
		Source:  e.collection,
		Logger:  e.logger.With("run", id),
	}
}

// Run executes the modules in category order over the shared collection.
// The report always holds the results gathered so far. Under FailFast the
// first rule failure stops the run and is returned; under Isolate the
// returned error joins every failure while all rules still run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	run := e.newRun()
	run.Logger.Info("scan started", "files", run.Source.Len(), "policy", e.policy.String())
	report := &Report{RunID: run.ID, Started: run.Started, Files: run.Source.Paths()}
	var errs []error
	for _, m := range e.modules {
		results, err := m.run(ctx, run.Source, run.Logger.Named(string(m.Category())))
		report.Sections = append(report.Sections, Section{Category: m.Category(), Results: results})
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if e.policy == FailFast || ctx.Err() != nil {
			break
		}
	}
	report.Elapsed = e.now().Sub(run.Started)
	sum := report.Summary()
	run.Logger.Info("scan finished", "rules", sum.Rules, "failed", sum.Failed, "findings", sum.Findings, "elapsed", report.Elapsed)
	if len(errs) == 1 {
		return report, errs[0]
	}
	return report, errors.Join(errs...)
}
