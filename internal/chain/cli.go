package chain

import (
	"context"
	"fmt"

	"trapscan/internal/command"
)

// CLIQuerier shells out to the chain binary (quasard) for smart queries.
type CLIQuerier struct {
	Binary  string
	Node    string
	ChainID string
	Runner  command.Runner
}

// Args builds the argv for a contract-state smart query.
func (q *CLIQuerier) Args(contract string, msg []byte) []string {
	return []string{
		q.Binary, "q", "wasm", "contract-state", "smart", contract, string(msg),
		"--node", q.Node,
		"--chain-id", q.ChainID,
		"-o", "json",
	}
}

// QuerySmart runs the query and returns stdout. Any stderr output is treated
// as failure; stdout is still returned with the error.
func (q *CLIQuerier) QuerySmart(ctx context.Context, contract string, msg []byte) ([]byte, error) {
	if q.Runner == nil {
		return nil, fmt.Errorf("command runner is nil")
	}
	out, err := q.Runner.Run(ctx, q.Args(contract, msg))
	if err != nil {
		return nil, err
	}
	stdout := []byte(out.Stdout)
	if out.Stderr != "" {
		return stdout, &QueryError{Contract: contract, Stderr: out.Stderr}
	}
	return stdout, nil
}
