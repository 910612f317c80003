package images

import "errors"

var (
	ErrUnknownSource   = errors.New("unknown image source")
	ErrNoSnapshot      = errors.New("snapshot file not found")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidRecord   = errors.New("invalid image record")
	ErrNoArchive       = errors.New("no archive file given")
)
