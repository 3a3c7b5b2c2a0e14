package chain

import (
	"context"
	"fmt"
	"strings"
)

// Querier runs CosmWasm smart queries. The returned bytes are the raw
// {"data": ...} document printed by the node CLI in JSON output mode. A
// failed query may return partial output alongside a *QueryError.
type Querier interface {
	QuerySmart(ctx context.Context, contract string, msg []byte) ([]byte, error)
}

// QueryError reports a smart query the node rejected.
type QueryError struct {
	Contract string
	Stderr   string
	Code     uint32
}

func (e *QueryError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if e.Code != 0 {
		return fmt.Sprintf("query %s: code %d: %s", e.Contract, e.Code, detail)
	}
	return fmt.Sprintf("query %s: %s", e.Contract, detail)
}
