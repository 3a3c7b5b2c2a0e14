package model

// SourceReport groups the bonds of one source by null-check outcome.
type SourceReport struct {
	Source   Source
	All      []BondRef
	Null     []BondRef
	Filtered []BondRef
	Err      error
}
