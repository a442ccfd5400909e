package report

import (
	"encoding/json"
	"io"

	"github.com/0x0918/sstan/internal/engine"
	"github.com/0x0918/sstan/internal/model"
)

type jsonFailure struct {
	RuleID   string         `json:"ruleId"`
	Category model.Category `json:"category"`
	Error    string         `json:"error"`
}

type jsonReport struct {
	Summary  model.ScanSummary `json:"summary"`
	Files    []string          `json:"files"`
	Rules    []model.RuleMeta  `json:"rules"`
	Issues   []model.Issue     `json:"issues"`
	Failures []jsonFailure     `json:"failures"`
}

func JSON(w io.Writer, res *engine.ScanResult) error {
	rules, _ := ruleIndex(res.Report)
	out := jsonReport{
		Summary:  res.Report.Summary(),
		Files:    res.Report.Files,
		Rules:    rules,
		Issues:   res.Issues,
		Failures: []jsonFailure{},
	}
	if out.Issues == nil {
		out.Issues = []model.Issue{}
	}
	for _, f := range res.Report.Failures() {
		out.Failures = append(out.Failures, jsonFailure{RuleID: f.RuleID, Category: f.Category, Error: f.Err.Error()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
