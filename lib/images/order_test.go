package images

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortTags(t *testing.T) {
	tags := []string{"x:1", "a:2", "z:latest", "b:latest"}
	sortTags(tags)
	assert.Equal(t, []string{"b:latest", "z:latest", "a:2", "x:1"}, tags)
}

func TestSortRecords(t *testing.T) {
	t0 := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{
		{ID: "newer", Created: t0.Add(time.Hour)},
		{ID: "b", Tags: []string{"b:1"}, Created: t0},
		{ID: "older", Created: t0},
		{ID: "a", Tags: []string{"a:latest", "a:1"}, Created: t0.Add(2 * time.Hour)},
		{ID: "same-time", Created: t0},
	}

	SortRecords(records)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"a", "b", "older", "same-time", "newer"}, ids)
}
