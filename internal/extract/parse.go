package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"trapscan/internal/model"
)

// ErrMissingErrors is returned when a response has no data.errors object.
var ErrMissingErrors = errors.New("response has no data.errors")

// Trap keys are "<sequence>-<channel id>", e.g. "12-channel-3". Matching is
// anchored at the start only.
var trapKeyPattern = regexp.MustCompile(`^\d+-channel-\d+`)

// Path from a trap value down to the pending bond list of a join swap step.
var joinSwapBondsPath = []string{"step", "ica", "join_swap_extern_amount_in", "bonds"}

type trappedErrorsResponse struct {
	Data *struct {
		Errors json.RawMessage `json:"errors"`
	} `json:"data"`
}

type entry struct {
	key   string
	value json.RawMessage
}

// ParseTrappedErrors walks a trapped_errors response and returns every bond
// referenced by a join swap step, in document order. Entries that do not have
// the expected shape are skipped.
func ParseTrappedErrors(raw []byte) ([]model.BondRef, error) {
	var resp trappedErrorsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse trapped errors: %w", err)
	}
	if resp.Data == nil || len(resp.Data.Errors) == 0 {
		return nil, ErrMissingErrors
	}

	entries, err := objectEntries(resp.Data.Errors)
	if err != nil {
		return nil, fmt.Errorf("parse data.errors: %w", err)
	}

	refs := make([]model.BondRef, 0)
	for _, e := range entries {
		if !trapKeyPattern.MatchString(e.key) {
			continue
		}
		refs = append(refs, bondsInTrap(e.key, e.value)...)
	}
	return refs, nil
}

func bondsInTrap(key string, trap json.RawMessage) []model.BondRef {
	bondsRaw, ok := lookup(trap, joinSwapBondsPath...)
	if !ok {
		return nil
	}

	var bonds []json.RawMessage
	if err := json.Unmarshal(bondsRaw, &bonds); err != nil {
		return nil
	}

	var refs []model.BondRef
	for _, bond := range bonds {
		id, ok := lookup(bond, "bond_id")
		if !ok {
			continue
		}
		refs = append(refs, model.BondRef{Key: key, BondID: scalarText(id)})
	}
	return refs
}

// lookup descends through nested objects. It reports false as soon as a level
// is not an object or lacks the next key.
func lookup(raw json.RawMessage, path ...string) (json.RawMessage, bool) {
	for _, name := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return nil, false
		}
		next, ok := obj[name]
		if !ok {
			return nil, false
		}
		raw = next
	}
	return raw, true
}

func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// objectEntries returns the members of a JSON object in document order.
func objectEntries(raw json.RawMessage) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		entries = append(entries, entry{key: key, value: value})
	}
	return entries, nil
}
