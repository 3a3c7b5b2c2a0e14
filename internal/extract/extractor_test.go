package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"trapscan/internal/chain"
	"trapscan/internal/model"
)

type stubQuerier struct {
	responses map[string]string
	failures  map[string]string
	calls     []string
}

func (s *stubQuerier) QuerySmart(_ context.Context, contract string, msg []byte) ([]byte, error) {
	s.calls = append(s.calls, contract+" "+string(msg))
	if stderr, ok := s.failures[contract]; ok {
		return []byte{}, &chain.QueryError{Contract: contract, Stderr: stderr}
	}
	return []byte(s.responses[contract]), nil
}

func TestExtractAllContinuesPastFailedSource(t *testing.T) {
	dir := t.TempDir()
	q := &stubQuerier{
		responses: map[string]string{
			"quasar1aaa": sampleResponse,
			"quasar1ccc": `{"data":{"errors":{}}}`,
		},
		failures: map[string]string{"quasar1bbb": "Error: rpc error\n"},
	}
	sources := []model.Source{
		{Label: "prim1", Address: "quasar1aaa"},
		{Label: "prim2", Address: "quasar1bbb"},
		{Label: "prim3", Address: "quasar1ccc"},
	}

	ex := NewExtractor(q, dir, nil)
	bondIDs, failures := ex.ExtractAll(context.Background(), sources)

	require.Len(t, bondIDs["prim1"], 3)
	require.NotNil(t, bondIDs["prim2"])
	require.Empty(t, bondIDs["prim2"])
	require.Empty(t, bondIDs["prim3"])
	require.Len(t, failures, 1)
	require.Contains(t, failures["prim2"].Error(), "rpc error")

	require.Equal(t, []string{
		`quasar1aaa {"trapped_errors": {}}`,
		`quasar1bbb {"trapped_errors": {}}`,
		`quasar1ccc {"trapped_errors": {}}`,
	}, q.calls)

	snapshot, err := os.ReadFile(filepath.Join(dir, "aaa_trapped_errors.json"))
	require.NoError(t, err)
	require.Equal(t, sampleResponse, string(snapshot))
}

func TestExtractMalformedResponse(t *testing.T) {
	q := &stubQuerier{responses: map[string]string{"quasar1aaa": `{"data":`}}
	ex := NewExtractor(q, t.TempDir(), nil)

	_, err := ex.Extract(context.Background(), model.Source{Label: "prim1", Address: "quasar1aaa"})
	require.Error(t, err)
}
