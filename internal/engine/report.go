package engine

import (
	"errors"
	"time"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/util"
)

// Section is the results of one category module.
type Section struct {
	Category model.Category `json:"category"`
	Results  []RuleResult   `json:"results"`
}

// Report is the ordered result of one engine run.
type Report struct {
	RunID    string        `json:"runId"`
	Started  time.Time     `json:"started"`
	Elapsed  time.Duration `json:"elapsed"`
	Files    []string      `json:"files"`
	Sections []Section     `json:"sections"`
}

// Results returns the results of category c, or nil when it did not run.
func (r *Report) Results(c model.Category) []RuleResult {
	for _, s := range r.Sections {
		if s.Category == c {
			return s.Results
		}
	}
	return nil
}

// Outcomes returns every successful outcome in run order.
func (r *Report) Outcomes() []*model.Outcome {
	var out []*model.Outcome
	for _, s := range r.Sections {
		for _, res := range s.Results {
			if res.Outcome != nil {
				out = append(out, res.Outcome)
			}
		}
	}
	return out
}

// Failures returns the rule errors in run order.
func (r *Report) Failures() []*model.RuleError {
	var out []*model.RuleError
	for _, s := range r.Sections {
		for _, res := range s.Results {
			var re *model.RuleError
			if errors.As(res.Err, &re) {
				out = append(out, re)
			}
		}
	}
	return out
}

// Issues flattens the findings of every outcome, in run order, and assigns
// each a fingerprint.
func (r *Report) Issues() []model.Issue {
	type key struct{ rule, file, snippet string }
	seen := map[key]int{}
	var out []model.Issue
	for _, o := range r.Outcomes() {
		for _, f := range o.All() {
			k := key{o.Rule.ID, f.File, f.Snippet}
			ordinal := seen[k]
			seen[k]++
			out = append(out, model.Issue{
				RuleID:      o.Rule.ID,
				Title:       o.Rule.Title,
				Category:    o.Rule.Category,
				Severity:    o.Rule.Severity,
				File:        f.File,
				StartLine:   f.Loc.StartLine,
				EndLine:     f.Loc.EndLine,
				Snippet:     f.Snippet,
				Fingerprint: util.Fingerprint(o.Rule.ID, f.File, ordinal, f.Snippet),
			})
		}
	}
	return out
}

func (r *Report) Summary() model.ScanSummary {
	s := model.ScanSummary{RunID: r.RunID, Files: len(r.Files), Elapsed: r.Elapsed}
	for _, sec := range r.Sections {
		for _, res := range sec.Results {
			s.Rules++
			if res.Failed() {
				s.Failed++
				continue
			}
			s.Findings += res.Outcome.Len()
		}
	}
	return s
}
