package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/0x0918/sstan/internal/config"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
	"github.com/0x0918/sstan/internal/source"
)

// ScanResult pairs the raw report with the issues left after severity,
// ignore and baseline filtering.
type ScanResult struct {
	Report *Report
	Issues []model.Issue
}

// Scan builds an engine from cfg and the built-in rules, runs it over
// req.Path and filters the findings. A rule failure under Isolate is
// returned alongside a complete result.
func Scan(ctx context.Context, req model.ScanRequest, cfg config.Config, logger hclog.Logger) (*ScanResult, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	policy, err := ParsePolicy(cfg.FailurePolicy)
	if err != nil {
		return nil, err
	}
	if req.FailFast {
		policy = FailFast
	}
	baseline, err := LoadBaseline(req.Baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}

	reg := rules.Builtin(cfg.Thresholds)
	pick := func(c model.Category) []rules.Rule { return selectRules(reg.Category(c), cfg.Rules) }
	eng, err := New(ctx, req.Path,
		pick(model.CategoryVulnerability),
		pick(model.CategoryOptimization),
		pick(model.CategoryQuality),
		WithPolicy(policy),
		WithLogger(logger),
		WithSourceOptions(source.Options{DeltaOnly: req.DeltaOnly, Exclude: cfg.Source.Exclude}),
	)
	if err != nil {
		return nil, err
	}
	report, runErr := eng.Run(ctx)

	issues := report.Issues()
	issues = filterBySeverity(issues, model.ParseSeverity(cfg.SeverityThreshold))
	issues = applyIgnores(issues, cfg.Ignore, eng.Collection(), time.Now())
	issues = filterByBaseline(issues, baseline)
	logger.Debug("issues filtered", "raw", report.Summary().Findings, "kept", len(issues))
	return &ScanResult{Report: report, Issues: issues}, runErr
}
