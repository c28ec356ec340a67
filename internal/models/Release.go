package models

// Release is one tracked catalog item. Name is the stable identity within
// the registry; Slot is the persistence adapter's row handle and has no
// meaning outside of it.
type Release struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kind    string `json:"kind,omitempty"`
	Slot    int    `json:"slot"`
}
