package model

import (
	"encoding/json"
	"fmt"
)

// BondRef identifies a bond found inside a trapped error entry.
type BondRef struct {
	Key    string
	BondID string
}

// MarshalJSON encodes a BondRef as a ["key", "bond_id"] pair.
func (b BondRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{b.Key, b.BondID})
}

// UnmarshalJSON decodes a BondRef from a ["key", "bond_id"] pair.
func (b *BondRef) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("bond ref: expected 2 elements, got %d", len(pair))
	}
	b.Key = pair[0]
	b.BondID = pair[1]
	return nil
}

func (b BondRef) String() string {
	return fmt.Sprintf("(%s, %s)", b.Key, b.BondID)
}

// BondIDs maps a source label to the bonds extracted for it.
type BondIDs map[string][]BondRef
