package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
)

func vuln(id string, err error) *stubRule {
	return &stubRule{id: id, cat: model.CategoryVulnerability, err: err}
}

func qa(id string) *stubRule { return &stubRule{id: id, cat: model.CategoryQuality} }

func TestEngineRunsCategoriesInOrder(t *testing.T) {
	eng := NewFromCollection(testCollection(t), stubs(vuln("V1", nil)), stubs(passing("O1"), passing("O2")), stubs(qa("Q1")))
	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	var order []model.Category
	for _, s := range report.Sections {
		order = append(order, s.Category)
	}
	assert.Equal(t, model.Categories, order)
	assert.Len(t, report.Results(model.CategoryOptimization), 2)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, []string{"a.sol", "b.sol"}, report.Files)

	sum := report.Summary()
	assert.Equal(t, 4, sum.Rules)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, 8, sum.Findings)
}

func TestEngineFailFastStopsRun(t *testing.T) {
	later := passing("O1")
	eng := NewFromCollection(testCollection(t), stubs(vuln("V1", nil), vuln("V2", errBoom)), stubs(later), nil, WithPolicy(FailFast))
	report, err := eng.Run(context.Background())

	var re *model.RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "V2", re.RuleID)
	assert.Equal(t, model.CategoryVulnerability, re.Category)
	require.Len(t, report.Sections, 1)
	assert.Len(t, report.Outcomes(), 1)
	assert.Equal(t, 0, later.calls)
}

func TestEngineIsolateKeepsGoing(t *testing.T) {
	eng := NewFromCollection(testCollection(t), stubs(vuln("V1", errBoom)), stubs(failing("O1"), passing("O2")), stubs(qa("Q1")))
	report, err := eng.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	require.Len(t, report.Sections, 3)
	failures := report.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "V1", failures[0].RuleID)
	assert.Equal(t, "O1", failures[1].RuleID)
	assert.Len(t, report.Outcomes(), 2)
}

func TestEngineEmptyModules(t *testing.T) {
	eng := NewFromCollection(testCollection(t), nil, nil, nil)
	for _, c := range model.Categories {
		require.NotNil(t, eng.Module(c))
	}
	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Issues())
	assert.Len(t, report.Sections, 3)
}

func TestEngineRunIDsDiffer(t *testing.T) {
	eng := NewFromCollection(testCollection(t), nil, nil, nil)
	r1, err := eng.Run(context.Background())
	require.NoError(t, err)
	r2, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, r1.RunID, r2.RunID)
}

const eventsContract = `pragma solidity 0.8.20;
contract Contract {
    event IsNotOptimized(address addr1, address indexed addr2);
    event IsOptimized(address indexed addr1, address indexed addr2, address indexed addr3);
    event AlsoIsNotOptimized(address addr1, address indexed addr2, address indexed addr3);
}
`

func TestEngineNewLoadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Events.sol"), []byte(eventsContract), 0o644))

	reg := rules.Builtin(rules.DefaultThresholds())
	rule, found := reg.Lookup("OPT-EVENT-INDEXING")
	require.True(t, found)

	eng, err := New(context.Background(), dir, nil, []rules.Rule{rule}, nil)
	require.NoError(t, err)
	report, err := eng.Run(context.Background())
	require.NoError(t, err)

	outs := eng.Module(model.CategoryOptimization).Outcomes()
	require.Len(t, outs, 1)
	require.Len(t, outs[0].Files, 1)
	assert.Len(t, outs[0].Files[0].Findings, 2)

	issues := report.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, 3, issues[0].StartLine)
	assert.Equal(t, 5, issues[1].StartLine)
	assert.NotEqual(t, issues[0].Fingerprint, issues[1].Fingerprint)

	again, err := eng.Run(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(issues, again.Issues()); diff != "" {
		t.Errorf("issues differ between runs (-first +second):\n%s", diff)
	}
}

func TestEngineNewFailsOnParseError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.sol"), []byte("contract A {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.sol"), []byte("contract B { uint256 x = ; }"), 0o644))

	eng, err := New(context.Background(), dir, nil, nil, nil)
	require.ErrorIs(t, err, model.ErrExtraction)
	assert.Contains(t, err.Error(), "broken.sol")
	assert.Nil(t, eng)
}
