package images

import "context"

// Source names understood by the CLI and configuration.
const (
	SourceDocker   = "docker"
	SourceSnapshot = "snapshot"
	SourceOCI      = "oci"
	SourceArchive  = "archive"
)

// Source enumerates the images stored locally.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// ListRaw returns every image the source knows about, in source order.
	ListRaw(ctx context.Context) ([]RawRecord, error)
}
