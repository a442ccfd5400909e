package report

import (
	"fmt"
	"io"

	"github.com/0x0918/sstan/internal/engine"
)

// Text writes one line per issue followed by any rule failures.
func Text(w io.Writer, res *engine.ScanResult) error {
	sum := res.Report.Summary()
	if _, err := fmt.Fprintf(w, "Findings: %d (files %d, rules %d, elapsed %s)\n", len(res.Issues), sum.Files, sum.Rules, sum.Elapsed); err != nil {
		return err
	}
	for _, is := range res.Issues {
		if _, err := fmt.Fprintf(w, "- %s [%s] %s:%d-%d %s\n", is.RuleID, is.Severity, is.File, is.StartLine, is.EndLine, is.Title); err != nil {
			return err
		}
	}
	for _, f := range res.Report.Failures() {
		if _, err := fmt.Fprintf(w, "! %v\n", f); err != nil {
			return err
		}
	}
	return nil
}
