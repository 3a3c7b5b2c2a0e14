package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newNodeServer(t *testing.T, handle func(req rpcRequest) interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handle(req),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientQuerySmart(t *testing.T) {
	var gotPath, gotContract, gotMsg string
	srv := newNodeServer(t, func(req rpcRequest) interface{} {
		require.Equal(t, "abci_query", req.Method)
		require.Len(t, req.Params, 4)
		require.NoError(t, json.Unmarshal(req.Params[0], &gotPath))

		var data string
		require.NoError(t, json.Unmarshal(req.Params[1], &data))
		raw, err := hex.DecodeString(data)
		require.NoError(t, err)

		_, _, n := protowire.ConsumeTag(raw)
		addr, m := protowire.ConsumeString(raw[n:])
		gotContract = addr
		raw = raw[n+m:]
		_, _, n = protowire.ConsumeTag(raw)
		msg, _ := protowire.ConsumeBytes(raw[n:])
		gotMsg = string(msg)

		value := protowire.AppendTag(nil, 1, protowire.BytesType)
		value = protowire.AppendBytes(value, []byte(`{"pending_bonds":null}`))
		return map[string]interface{}{
			"response": map[string]interface{}{"code": 0, "value": value},
		}
	})

	client, err := NewClient(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	out, err := client.QuerySmart(context.Background(), "quasar1vault", []byte(`{"pending_bonds_by_id":{"bond_id":"1"}}`))
	require.NoError(t, err)
	require.Equal(t, `{"data":{"pending_bonds":null}}`, string(out))
	require.Equal(t, smartQueryPath, gotPath)
	require.Equal(t, "quasar1vault", gotContract)
	require.Equal(t, `{"pending_bonds_by_id":{"bond_id":"1"}}`, gotMsg)
}

func TestClientQuerySmartABCIError(t *testing.T) {
	srv := newNodeServer(t, func(rpcRequest) interface{} {
		return map[string]interface{}{
			"response": map[string]interface{}{"code": 9, "log": "query wasm contract failed"},
		}
	})

	client, err := NewClient(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.QuerySmart(context.Background(), "quasar1vault", []byte(`{}`))
	var qerr *QueryError
	require.True(t, errors.As(err, &qerr))
	require.EqualValues(t, 9, qerr.Code)
}

func TestClientChainID(t *testing.T) {
	srv := newNodeServer(t, func(req rpcRequest) interface{} {
		require.Equal(t, "status", req.Method)
		return map[string]interface{}{"node_info": map[string]interface{}{"network": "quasar-1"}}
	})

	client, err := NewClient(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	id, err := client.ChainID(context.Background())
	require.NoError(t, err)
	require.Equal(t, "quasar-1", id)
}
