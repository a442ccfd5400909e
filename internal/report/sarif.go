package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/0x0918/sstan/internal/engine"
	"github.com/0x0918/sstan/internal/model"
)

const (
	toolName = "sstan"
	toolURI  = "https://github.com/0x0918/sstan"
)

// SARIF writes a SARIF 2.1.0 log with one rule per built-in rule that ran.
// Rules that failed are reported as tool execution notifications.
func SARIF(w io.Writer, res *engine.ScanResult) error {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	rules, _ := ruleIndex(res.Report)
	for _, m := range rules {
		run.AddRule(m.ID).
			WithDescription(m.Title).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: sarifLevel(m.Severity)})
	}
	for _, is := range res.Issues {
		region := sarif.NewRegion().WithStartLine(is.StartLine)
		endLine := is.EndLine
		region.EndLine = &endLine
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(is.File)).
				WithRegion(region),
		)
		result := sarif.NewRuleResult(is.RuleID).
			WithMessage(sarif.NewTextMessage(is.Title)).
			WithLevel(sarifLevel(is.Severity)).
			WithLocations([]*sarif.Location{location})
		result.Properties = sarif.Properties{"fingerprint": is.Fingerprint, "category": string(is.Category)}
		run.AddResult(result)
	}
	failures := res.Report.Failures()
	inv := run.AddInvocation(len(failures) == 0)
	for _, f := range failures {
		inv.AddTToolExecutionNotification(sarif.NewNotification().
			WithLevel("error").
			WithTextMessage(f.Error()).
			WithAssociatedRule(sarif.NewReportingDescriptorReference().WithId(f.RuleID)))
	}
	log.AddRun(run)
	return log.PrettyWrite(w)
}

func sarifLevel(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	case model.SeverityLow:
		return "note"
	default:
		return "none"
	}
}
