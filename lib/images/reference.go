package images

import (
	"strings"

	"github.com/distribution/reference"
)

// NormalizedRef is a docker image reference expanded to its canonical form,
// e.g. "alpine" -> "docker.io/library/alpine:latest". Local tags are stored in
// familiar form ("alpine:3.17"), so two spellings of the same name compare
// equal only after both are normalized.
type NormalizedRef struct {
	named    reference.Named
	digest   string
	isDigest bool
}

// ParseNormalizedRef validates and normalizes a user-provided image reference.
func ParseNormalizedRef(s string) (*NormalizedRef, error) {
	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return nil, err
	}

	if canonical, ok := named.(reference.Canonical); ok {
		return &NormalizedRef{
			named:    canonical,
			digest:   canonical.Digest().String(),
			isDigest: true,
		}, nil
	}

	return &NormalizedRef{named: reference.TagNameOnly(named)}, nil
}

// String returns the full normalized reference.
func (r *NormalizedRef) String() string {
	return r.named.String()
}

// IsDigest reports whether the reference pins a digest ("name@sha256:...").
func (r *NormalizedRef) IsDigest() bool {
	return r.isDigest
}

// DigestHex returns the digest without its algorithm prefix.
func (r *NormalizedRef) DigestHex() string {
	_, hex, ok := strings.Cut(r.digest, ":")
	if !ok {
		return ""
	}
	return hex
}

// MatchesTag reports whether a local tag names the same image reference.
// Tags that are not valid references never match.
func (r *NormalizedRef) MatchesTag(tag string) bool {
	if r.isDigest {
		return false
	}
	other, err := ParseNormalizedRef(tag)
	if err != nil {
		return false
	}
	return other.String() == r.String()
}
