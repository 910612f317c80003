package images

import (
	"slices"
	"strings"
)

const latestSuffix = ":latest"

// sortTags orders tags in place: ":latest" tags first, then lexically.
func sortTags(tags []string) {
	slices.SortFunc(tags, func(a, b string) int {
		aLatest, bLatest := strings.HasSuffix(a, latestSuffix), strings.HasSuffix(b, latestSuffix)
		if aLatest != bLatest {
			if aLatest {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
}

// SortRecords orders records for display: tagged images first by their joined
// tag list, then untagged images oldest first. The sort is stable, so ties
// keep the order the source reported.
func SortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if a.HasTags() != b.HasTags() {
			if a.HasTags() {
				return -1
			}
			return 1
		}
		if a.HasTags() {
			return strings.Compare(strings.Join(a.Tags, ","), strings.Join(b.Tags, ","))
		}
		return a.Created.Compare(b.Created)
	})
}
