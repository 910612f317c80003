package images

import (
	"encoding/json"
	"time"
)

// RawRecord is an image record as produced by a Source, before validation.
// Its JSON shape matches `docker inspect` so snapshots can be taken directly
// from the docker CLI.
type RawRecord struct {
	ID       string      `json:"Id"`
	Parent   string      `json:"Parent,omitempty"`
	RepoTags []string    `json:"RepoTags"`
	Created  string      `json:"Created"`
	Size     json.Number `json:"Size"`
}

// Record is a validated local image.
type Record struct {
	ID       string // hex content hash without algorithm prefix
	ParentID string // empty for base images
	Tags     []string
	Created  time.Time
	Size     int64
}

// ShortIDLength is the number of id characters shown when ids are truncated.
const ShortIDLength = 12

// ShortID returns the truncated display form of the id.
func (r Record) ShortID() string {
	if len(r.ID) <= ShortIDLength {
		return r.ID
	}
	return r.ID[:ShortIDLength]
}

// HasTags reports whether the image carries at least one name.
func (r Record) HasTags() bool {
	return len(r.Tags) > 0
}
