package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0918/sstan/internal/engine"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
	"github.com/0x0918/sstan/internal/source"
)

const token = `pragma solidity ^0.8.0;
contract Token {
    event Transfer(address from, address to, uint256 value);
    function check(address a) external pure returns (bool) {
        return a == address(0);
    }
}
`

type brokenRule struct{}

func (brokenRule) Meta() model.RuleMeta {
	return model.RuleMeta{ID: "QA-BROKEN", Title: "Broken", Category: model.CategoryQuality, Severity: model.SeverityLow}
}

func (brokenRule) Find(rules.Source) (*model.Outcome, error) {
	return nil, errors.New("cannot extract")
}

func scanResult(t *testing.T) *engine.ScanResult {
	t.Helper()
	col, err := source.ParseFiles(map[string]string{"src/Token.sol": token})
	require.NoError(t, err)
	reg := rules.Builtin(rules.DefaultThresholds())
	pick := func(ids ...string) []rules.Rule {
		var out []rules.Rule
		for _, id := range ids {
			r, found := reg.Lookup(id)
			require.True(t, found, id)
			out = append(out, r)
		}
		return out
	}
	eng := engine.NewFromCollection(col,
		pick("VULN-FLOATING-PRAGMA"),
		pick("OPT-EVENT-INDEXING", "OPT-ADDRESS-ZERO"),
		[]rules.Rule{brokenRule{}},
	)
	rep, err := eng.Run(context.Background())
	require.Error(t, err)
	return &engine.ScanResult{Report: rep, Issues: rep.Issues()}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, scanResult(t)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Findings: 3 (files 1, rules 4"))
	assert.Contains(t, out, "- VULN-FLOATING-PRAGMA [medium] src/Token.sol:1-1 Floating pragma solidity version")
	assert.Contains(t, out, "- OPT-ADDRESS-ZERO [info] src/Token.sol:5-5")
	assert.Contains(t, out, "! rule QA-BROKEN in category quality failed: cannot extract")
}

func TestMarkdown(t *testing.T) {
	res := scanResult(t)

	var plain bytes.Buffer
	require.NoError(t, Markdown(&plain, res, Options{}))
	out := plain.String()
	assert.Contains(t, out, "# sstan report")
	assert.Contains(t, out, "## Vulnerabilities")
	assert.Contains(t, out, "## Optimizations")
	assert.NotContains(t, out, "## Quality Assurance")
	assert.Contains(t, out, "### Event is not properly indexed")
	assert.Contains(t, out, "```solidity\nevent Transfer(address from, address to, uint256 value);\n```")
	assert.Contains(t, out, "## Failed rules")
	assert.NotContains(t, out, "**Remediation:**")
	assert.Less(t, strings.Index(out, "## Vulnerabilities"), strings.Index(out, "## Optimizations"))

	var described bytes.Buffer
	require.NoError(t, Markdown(&described, res, Options{Descriptions: true}))
	assert.Contains(t, described.String(), "**Remediation:** Pin an exact compiler version")
	assert.Contains(t, described.String(), "- SWC-103")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, scanResult(t)))
	var got struct {
		Summary  model.ScanSummary `json:"summary"`
		Issues   []model.Issue     `json:"issues"`
		Rules    []model.RuleMeta  `json:"rules"`
		Failures []jsonFailure     `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 4, got.Summary.Rules)
	assert.Equal(t, 1, got.Summary.Failed)
	require.Len(t, got.Issues, 3)
	assert.Equal(t, "VULN-FLOATING-PRAGMA", got.Issues[0].RuleID)
	assert.Len(t, got.Rules, 4)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, "QA-BROKEN", got.Failures[0].RuleID)
}

func TestSARIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SARIF(&buf, scanResult(t)))

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	assert.Equal(t, "sstan", log.Runs[0].Tool.Driver.Name)
	assert.Len(t, log.Runs[0].Tool.Driver.Rules, 4)
	results := log.Runs[0].Results
	require.Len(t, results, 3)
	assert.Equal(t, "VULN-FLOATING-PRAGMA", results[0].RuleID)
	assert.Equal(t, "warning", results[0].Level)
	assert.Equal(t, "src/Token.sol", results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 3, results[1].Locations[0].PhysicalLocation.Region.StartLine)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "table": FormatText, "md": FormatMarkdown, "SARIF": FormatSARIF, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

type sarifInvocations struct {
	Runs []struct {
		Invocations []struct {
			ExecutionSuccessful        bool `json:"executionSuccessful"`
			ToolExecutionNotifications []struct {
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				AssociatedRule struct {
					ID string `json:"id"`
				} `json:"associatedRule"`
			} `json:"toolExecutionNotifications"`
		} `json:"invocations"`
	} `json:"runs"`
}

func TestSARIFReportsRuleFailures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SARIF(&buf, scanResult(t)))

	var log sarifInvocations
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Len(t, log.Runs, 1)
	require.Len(t, log.Runs[0].Invocations, 1)
	inv := log.Runs[0].Invocations[0]
	assert.False(t, inv.ExecutionSuccessful)
	require.Len(t, inv.ToolExecutionNotifications, 1)
	n := inv.ToolExecutionNotifications[0]
	assert.Equal(t, "error", n.Level)
	assert.Equal(t, "QA-BROKEN", n.AssociatedRule.ID)
	assert.Contains(t, n.Message.Text, "cannot extract")
}

func TestSARIFCleanRun(t *testing.T) {
	col, err := source.ParseFiles(map[string]string{"src/Token.sol": token})
	require.NoError(t, err)
	eng := engine.NewFromCollection(col, nil, nil, nil)
	rep, err := eng.Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SARIF(&buf, &engine.ScanResult{Report: rep, Issues: rep.Issues()}))
	var log sarifInvocations
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Len(t, log.Runs[0].Invocations, 1)
	assert.True(t, log.Runs[0].Invocations[0].ExecutionSuccessful)
	assert.Empty(t, log.Runs[0].Invocations[0].ToolExecutionNotifications)
}
