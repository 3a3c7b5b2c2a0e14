package chain

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Client queries a CometBFT node over JSON-RPC.
type Client struct {
	rpcClient *rpc.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &Client{rpcClient: rpcClient}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

type statusResult struct {
	NodeInfo struct {
		Network string `json:"network"`
	} `json:"node_info"`
}

// ChainID returns the network name reported by the node.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	var res statusResult
	if err := c.rpcClient.CallContext(ctx, &res, "status"); err != nil {
		return "", err
	}
	return res.NodeInfo.Network, nil
}

type abciQueryResult struct {
	Response struct {
		Code      uint32 `json:"code"`
		Log       string `json:"log"`
		Value     []byte `json:"value"`
		Codespace string `json:"codespace"`
	} `json:"response"`
}

// QuerySmart runs a wasm smart query through abci_query at the latest height.
func (c *Client) QuerySmart(ctx context.Context, contract string, msg []byte) ([]byte, error) {
	req := hex.EncodeToString(encodeSmartQueryRequest(contract, msg))

	var res abciQueryResult
	if err := c.rpcClient.CallContext(ctx, &res, "abci_query", smartQueryPath, req, "0", false); err != nil {
		return nil, fmt.Errorf("abci query: %w", err)
	}
	if res.Response.Code != 0 {
		return nil, &QueryError{Contract: contract, Code: res.Response.Code, Stderr: res.Response.Log}
	}

	data, err := decodeSmartQueryResponse(res.Response.Value)
	if err != nil {
		return nil, err
	}
	return wrapData(data), nil
}
