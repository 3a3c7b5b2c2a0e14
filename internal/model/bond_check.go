package model

// BondCheck is the result of a pending bond lookup against the vault.
type BondCheck struct {
	Source    string `json:"source"`
	Key       string `json:"key"`
	BondID    string `json:"bond_id"`
	Null      bool   `json:"null"`
	Error     string `json:"error,omitempty"`
	CheckedAt string `json:"checked_at"`
}

// Ref returns the bond reference the check was made for.
func (c BondCheck) Ref() BondRef {
	return BondRef{Key: c.Key, BondID: c.BondID}
}
