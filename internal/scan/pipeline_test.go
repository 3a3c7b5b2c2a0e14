package scan

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"trapscan/internal/chain"
	"trapscan/internal/model"
	"trapscan/internal/pending"
	"trapscan/internal/storage"
)

const vault = "quasar1vault"

type fakeChain struct {
	trapped map[string]string
	broken  map[string]bool
	null    map[string]bool
	checked []string
}

func (f *fakeChain) QuerySmart(_ context.Context, contract string, msg []byte) ([]byte, error) {
	if contract == vault {
		f.checked = append(f.checked, string(msg))
		for id := range f.null {
			if strings.Contains(string(msg), `"bond_id":"`+id+`"`) {
				return []byte(`{"data":{"pending_bonds":null}}`), nil
			}
		}
		return []byte(`{"data":{"pending_bonds":{"bonds":[]}}}`), nil
	}
	if f.broken[contract] {
		return []byte{}, &chain.QueryError{Contract: contract, Stderr: "Error: post failed"}
	}
	return []byte(f.trapped[contract]), nil
}

func trap(bondIDs ...string) string {
	bonds := make([]string, 0, len(bondIDs))
	for _, id := range bondIDs {
		bonds = append(bonds, `{"bond_id":"`+id+`"}`)
	}
	return `{"step":{"ica":{"join_swap_extern_amount_in":{"bonds":[` + strings.Join(bonds, ",") + `]}}}}`
}

func newTestPipeline(t *testing.T, fc *fakeChain, sink storage.Storage, out *bytes.Buffer) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		Sources: []model.Source{
			{Label: "prim1", Address: "quasar1aaa"},
			{Label: "prim2", Address: "quasar1bbb"},
			{Label: "prim3", Address: "quasar1ccc"},
		},
		Vault:       vault,
		OutDir:      dir,
		BondIDsPath: filepath.Join(dir, "bond_ids.json"),
		NullCheck:   pending.ModeSubstring,
	}
	return NewPipeline(cfg, fc, sink, out, nil), dir
}

func TestPipelineRun(t *testing.T) {
	fc := &fakeChain{
		trapped: map[string]string{
			"quasar1aaa": `{"data":{"errors":{"1-channel-0":` + trap("10", "11") + `,"junk":` + trap("99") + `}}}`,
			"quasar1ccc": `{"data":{"errors":{"7-channel-3":` + trap("30") + `}}}`,
		},
		broken: map[string]bool{"quasar1bbb": true},
		null:   map[string]bool{"11": true, "30": true},
	}
	var out bytes.Buffer
	results := filepath.Join(t.TempDir(), "checks.jsonl")
	p, dir := newTestPipeline(t, fc, storage.NewJsonlStorage(results), &out)

	require.NoError(t, p.Run(context.Background()))

	saved, err := storage.LoadBondIDs(filepath.Join(dir, "bond_ids.json"))
	require.NoError(t, err)
	require.Equal(t, model.BondIDs{
		"prim1": {{Key: "1-channel-0", BondID: "10"}, {Key: "1-channel-0", BondID: "11"}},
		"prim2": {},
		"prim3": {{Key: "7-channel-3", BondID: "30"}},
	}, saved)

	for _, name := range []string{"aaa_trapped_errors.json", "bbb_trapped_errors.json", "ccc_trapped_errors.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	report := out.String()
	require.Contains(t, report, "PRIM1: [(1-channel-0, 11)]")
	require.Contains(t, report, "PRIM3: [(7-channel-3, 30)]")
	require.Contains(t, report, "Filtered bond_ids for prim1: [(1-channel-0, 10)]")
	require.Contains(t, report, "Filtered bond_ids for prim3: []")
	require.Contains(t, report, "prim2 failed")

	lines, err := os.ReadFile(results)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(string(lines), "\n"))
}

func TestPipelineCheckFile(t *testing.T) {
	fc := &fakeChain{null: map[string]bool{"5": true}}
	var out bytes.Buffer
	p, dir := newTestPipeline(t, fc, nil, &out)

	path := filepath.Join(dir, "saved.json")
	require.NoError(t, storage.SaveBondIDs(path, model.BondIDs{
		"prim1": {{Key: "2-channel-1", BondID: "5"}, {Key: "2-channel-1", BondID: "6"}},
	}))

	require.NoError(t, p.CheckFile(context.Background(), path))
	require.Contains(t, out.String(), "PRIM1: [(2-channel-1, 5)]")
	require.Contains(t, out.String(), "Filtered bond_ids for prim1: [(2-channel-1, 6)]")
	require.Contains(t, out.String(), "PRIM2: []")
}

func TestPipelineCheckFileReportsUnconfiguredLabels(t *testing.T) {
	fc := &fakeChain{null: map[string]bool{"5": true}}
	var out bytes.Buffer
	p, dir := newTestPipeline(t, fc, nil, &out)

	path := filepath.Join(dir, "saved.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"custom":[["2-channel-1","5"],["2-channel-1","6"]],"prim1":[]}`), 0o644))

	require.NoError(t, p.CheckFile(context.Background(), path))
	require.Equal(t, []string{
		`{"pending_bonds_by_id":{"bond_id":"5"}}`,
		`{"pending_bonds_by_id":{"bond_id":"6"}}`,
	}, fc.checked)

	report := out.String()
	require.Contains(t, report, "CUSTOM: [(2-channel-1, 5)]")
	require.Contains(t, report, "Filtered bond_ids for custom: [(2-channel-1, 6)]")
	// configured sources keep their place ahead of file-only labels
	require.Less(t, strings.Index(report, "PRIM3: []"), strings.Index(report, "CUSTOM:"))
}

func TestPipelineRequiresSources(t *testing.T) {
	p := NewPipeline(Config{BondIDsPath: "x.json"}, &fakeChain{}, nil, nil, nil)
	require.Error(t, p.Run(context.Background()))
}
