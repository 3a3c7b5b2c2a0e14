package pending

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Mode selects how a pending_bonds_by_id response is classified.
type Mode string

const (
	// ModeSubstring matches the literal ":null" anywhere in the raw output.
	ModeSubstring Mode = "substring"
	// ModeStructured parses the response and inspects data.pending_bonds.
	ModeStructured Mode = "structured"
)

// ParseMode validates a mode name. An empty name selects ModeSubstring.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case "", ModeSubstring:
		return ModeSubstring, nil
	case ModeStructured:
		return ModeStructured, nil
	default:
		return "", fmt.Errorf("unknown null check mode: %s", name)
	}
}

var nullMarker = []byte(":null")

// IsNull reports whether raw contains ":null". It matches regardless of which
// field holds the null.
func IsNull(raw []byte) bool {
	return bytes.Contains(raw, nullMarker)
}

// IsNullStructured reports whether data or data.pending_bonds is null.
// Unparseable output is not null.
func IsNullStructured(raw []byte) bool {
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return false
	}
	if isJSONNull(resp.Data) {
		return true
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return false
	}
	bonds, ok := data["pending_bonds"]
	return ok && isJSONNull(bonds)
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (m Mode) classify(raw []byte) bool {
	if m == ModeStructured {
		return IsNullStructured(raw)
	}
	return IsNull(raw)
}
