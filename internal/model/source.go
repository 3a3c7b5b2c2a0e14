package model

// Source is a primitive contract queried for trapped errors.
type Source struct {
	Label   string `json:"label"`
	Address string `json:"address"`
}

// SnapshotName returns the raw trapped errors file name for the source.
func (s Source) SnapshotName() string {
	suffix := s.Address
	if len(suffix) > 3 {
		suffix = suffix[len(suffix)-3:]
	}
	return suffix + "_trapped_errors.json"
}
