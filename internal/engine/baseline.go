package engine

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/0x0918/sstan/internal/model"
)

// Baseline is a set of accepted finding fingerprints.
type Baseline struct {
	GeneratedAt  time.Time       `json:"generatedAt"`
	Fingerprints map[string]bool `json:"fingerprints"`
}

// LoadBaseline reads a baseline written by WriteBaseline, or a plain JSON
// array of fingerprints. An empty path yields an empty baseline.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Fingerprints: map[string]bool{}}
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	var fp []string
	if err := json.Unmarshal(data, &fp); err == nil {
		for _, f := range fp {
			b.Fingerprints[f] = true
		}
		return b, nil
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return b, err
	}
	if b.Fingerprints == nil {
		b.Fingerprints = map[string]bool{}
	}
	return b, nil
}

func filterByBaseline(issues []model.Issue, b Baseline) []model.Issue {
	if len(b.Fingerprints) == 0 {
		return issues
	}
	var out []model.Issue
	for _, is := range issues {
		if is.Fingerprint != "" && b.Fingerprints[is.Fingerprint] {
			continue
		}
		out = append(out, is)
	}
	return out
}

// WriteBaseline stores the fingerprints of issues as a sorted JSON array.
func WriteBaseline(path string, issues []model.Issue) error {
	if path == "" {
		return nil
	}
	seen := map[string]bool{}
	arr := []string{}
	for _, is := range issues {
		if is.Fingerprint != "" && !seen[is.Fingerprint] {
			seen[is.Fingerprint] = true
			arr = append(arr, is.Fingerprint)
		}
	}
	sort.Strings(arr)
	data, err := json.MarshalIndent(arr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
