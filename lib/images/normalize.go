package images

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/onkernel/imagetree/lib/logger"
	"github.com/opencontainers/go-digest"
	"github.com/samber/lo"
)

// noneTag is the placeholder the docker CLI prints for dangling images.
const noneTag = "<none>:<none>"

// createdLayouts are tried in order when parsing Created. Values without a
// zone are taken as UTC.
var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Normalize validates raw records and converts them to Records. Malformed
// records and repeated ids are logged and skipped; the number skipped is
// returned alongside the valid records, which keep their input order.
func Normalize(ctx context.Context, raws []RawRecord) ([]Record, int) {
	log := logger.FromContext(ctx)

	records := make([]Record, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	skipped := 0

	for _, raw := range raws {
		rec, err := normalizeRecord(raw)
		if err != nil {
			log.WarnContext(ctx, "skipping malformed image record", "id", raw.ID, "error", err)
			skipped++
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			log.WarnContext(ctx, "skipping duplicate image record", "id", rec.ID)
			skipped++
			continue
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	return records, skipped
}

func normalizeRecord(raw RawRecord) (Record, error) {
	id, err := parseImageID(raw.ID)
	if err != nil {
		return Record{}, fmt.Errorf("%w: id: %v", ErrInvalidRecord, err)
	}

	var parentID string
	if strings.TrimSpace(raw.Parent) != "" {
		parentID, err = parseImageID(raw.Parent)
		if err != nil {
			return Record{}, fmt.Errorf("%w: parent: %v", ErrInvalidRecord, err)
		}
	}

	created, err := parseCreated(raw.Created)
	if err != nil {
		return Record{}, fmt.Errorf("%w: created: %v", ErrInvalidRecord, err)
	}

	size, err := raw.Size.Int64()
	if err != nil {
		return Record{}, fmt.Errorf("%w: size %q: %v", ErrInvalidRecord, raw.Size, err)
	}
	if size < 0 {
		return Record{}, fmt.Errorf("%w: negative size %d", ErrInvalidRecord, size)
	}

	return Record{
		ID:       id,
		ParentID: parentID,
		Tags:     normalizeTags(raw.RepoTags),
		Created:  created,
		Size:     size,
	}, nil
}

// parseImageID accepts either "sha256:<hex>" or bare hex and returns the hex part.
func parseImageID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty")
	}

	d := digest.Digest(s)
	if !strings.Contains(s, ":") {
		d = digest.NewDigestFromEncoded(digest.SHA256, s)
	}
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d.Encoded(), nil
}

func parseCreated(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range createdLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// normalizeTags drops placeholders and repeats, then orders ":latest" tags first.
func normalizeTags(tags []string) []string {
	trimmed := lo.Map(tags, func(t string, _ int) string {
		return strings.TrimSpace(t)
	})
	kept := lo.Uniq(lo.Filter(trimmed, func(t string, _ int) bool {
		return t != "" && t != noneTag
	}))
	if len(kept) == 0 {
		return nil
	}
	sortTags(kept)
	return kept
}
