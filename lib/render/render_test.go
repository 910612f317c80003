package render

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onkernel/imagetree/lib/forest"
	"github.com/onkernel/imagetree/lib/images"
)

var t0 = time.Date(2022, 11, 22, 22, 19, 29, 0, time.UTC)

func hexID(c byte) string {
	return strings.Repeat(string(c), 64)
}

func rec(id, parent string, created time.Time, size int64, tags ...string) images.Record {
	return images.Record{
		ID:       hexID(id[0]),
		ParentID: parentID(parent),
		Tags:     tags,
		Created:  created,
		Size:     size,
	}
}

func parentID(p string) string {
	if p == "" {
		return ""
	}
	return hexID(p[0])
}

const alpineSize = 7025459

// fixture holds two independent trees:
//
//	alpine:3.17 (a)
//	└── tesseract-alpine:2022.12.26.001 (b)
//	    └── untagged (c)
//	ubuntu:22.04 (d)
//	└── tesseract:latest (e)
func fixture() []images.Record {
	layer := 723 * int64(datasize.MB)
	return []images.Record{
		rec("a", "", t0, alpineSize, "alpine:3.17"),
		rec("b", "a", t0.Add(21*time.Minute+54*time.Second), alpineSize+layer, "tesseract-alpine:2022.12.26.001"),
		rec("c", "b", t0.Add(21*time.Minute+55*time.Second), alpineSize+layer),
		rec("d", "", t0, 80*int64(datasize.MB), "ubuntu:22.04"),
		rec("e", "d", t0.Add(10*time.Minute), 900*int64(datasize.MB), "tesseract:latest"),
	}
}

func TestTreeSingleChild(t *testing.T) {
	f := forest.Build(fixture()[:2])

	lines := slices.Collect(View(f, Options{}))
	assert.Equal(t, []string{
		"alpine:3.17: 2022.11.22 22:19:29, 6.7M",
		"└───tesseract-alpine:2022.12.26.001: +21:54, +723M",
	}, lines)
}

func TestTreeBranches(t *testing.T) {
	f := forest.Build([]images.Record{
		rec("a", "", t0, 1000, "alpine:3.17"),
		rec("b", "a", t0, 1000),
		rec("c", "a", t0.Add(3*time.Second), 1300, "app:v1"),
		rec("d", "c", t0.Add(3*time.Second), 1300),
	})

	lines := slices.Collect(Tree(f, Options{}))
	assert.Equal(t, []string{
		"alpine:3.17: 2022.11.22 22:19:29, 1.0K",
		"├───bbbbbbbbbbbb",
		"└───app:v1: +3s, +0.3K",
		"    └───dddddddddddd",
	}, lines)
}

func TestTreeContinuation(t *testing.T) {
	f := forest.Build([]images.Record{
		rec("a", "", t0, 1000, "base:1"),
		rec("b", "a", t0, 1000, "mid:1"),
		rec("c", "b", t0, 1000, "leaf:1"),
		rec("d", "a", t0, 1000, "side:1"),
	})

	lines := slices.Collect(Tree(f, Options{}))
	assert.Equal(t, []string{
		"base:1: 2022.11.22 22:19:29, 1.0K",
		"├───mid:1",
		"│   └───leaf:1",
		"└───side:1",
	}, lines)
}

func TestTreeLargeGapShowsTimestamp(t *testing.T) {
	f := forest.Build([]images.Record{
		rec("a", "", t0, 1000, "base:1"),
		rec("b", "a", t0.Add(3*time.Hour), 1000, "later:1"),
	})

	lines := slices.Collect(Tree(f, Options{}))
	assert.Equal(t, "└───later:1: 2022.11.23 01:19:29", lines[1])
}

func TestFilteredLineage(t *testing.T) {
	f, unmatched := forest.FilterByNames(forest.Build(fixture()), []string{"tesseract-alpine"})
	require.Empty(t, unmatched)

	lines := slices.Collect(View(f, Options{Targets: 1}))
	assert.Equal(t, []string{
		"┌─alpine:3.17: 2022.11.22 22:19:29, 6.7M",
		"└─• tesseract-alpine:2022.12.26.001: +21:54, +723M",
		"    └───cccccccccccc: +1s",
	}, lines)
	for _, l := range lines {
		assert.NotContains(t, l, "ubuntu")
		assert.NotContains(t, l, "tesseract:latest")
	}
}

func TestFilteredLineageDeepAncestors(t *testing.T) {
	f, _ := forest.FilterByNames(forest.Build(fixture()), []string{"cccc"})

	lines := slices.Collect(View(f, Options{Targets: 1}))
	assert.Equal(t, []string{
		"┌─alpine:3.17: 2022.11.22 22:19:29, 6.7M",
		"├─tesseract-alpine:2022.12.26.001: +21:54, +723M",
		"└─• cccccccccccc: +1s",
	}, lines)
}

func TestFilteredLineageRootTarget(t *testing.T) {
	f, _ := forest.FilterByNames(forest.Build(fixture()), []string{"alpine:3.17"})

	lines := slices.Collect(View(f, Options{Targets: 1}))
	assert.Equal(t, []string{
		"• alpine:3.17: 2022.11.22 22:19:29, 6.7M",
		"  └───tesseract-alpine:2022.12.26.001: +21:54, +723M",
		"      └───cccccccccccc: +1s",
	}, lines)
}

func TestAlwaysIndent(t *testing.T) {
	f, _ := forest.FilterByNames(forest.Build(fixture()), []string{"tesseract-alpine"})

	lines := slices.Collect(View(f, Options{Targets: 1, AlwaysIndent: true}))
	assert.Equal(t, []string{
		"alpine:3.17: 2022.11.22 22:19:29, 6.7M",
		"└─• tesseract-alpine:2022.12.26.001: +21:54, +723M",
		"    └───cccccccccccc: +1s",
	}, lines)
}

func TestMultipleTargets(t *testing.T) {
	f, unmatched := forest.FilterByNames(forest.Build(fixture()), []string{"tesseract", "missing"})
	assert.Equal(t, []string{"missing"}, unmatched)

	lines := slices.Collect(View(f, Options{Targets: 2}))
	assert.Equal(t, []string{
		"alpine:3.17: 2022.11.22 22:19:29, 6.7M",
		"└─• tesseract-alpine:2022.12.26.001: +21:54, +723M",
		"    └───cccccccccccc: +1s",
		"ubuntu:22.04: 2022.11.22 22:19:29, 80M",
		"└─• tesseract:latest: +10:00, +820M",
	}, lines)
}

func TestLeafsList(t *testing.T) {
	f := forest.Build(fixture())

	lines := slices.Collect(View(f, Options{Mode: ModeLeafs}))
	assert.Equal(t, []string{
		"cccccccccccc: 2022.11.22 22:41:24, 730M",
		"tesseract:latest: 2022.11.22 22:29:29, 900M",
	}, lines)
}

func TestRootsList(t *testing.T) {
	f := forest.Build(fixture())

	lines := slices.Collect(View(f, Options{Mode: ModeRoots, NoTrunc: true}))
	assert.Equal(t, []string{
		"alpine:3.17: 2022.11.22 22:19:29, 6.7M",
		"ubuntu:22.04: 2022.11.22 22:19:29, 80M",
	}, lines)
}

func TestLabel(t *testing.T) {
	untagged := rec("f", "", t0, 0)
	assert.Equal(t, "ffffffffffff", Label(untagged, false))
	assert.Equal(t, hexID('f'), Label(untagged, true))

	tagged := rec("f", "", t0, 0, "app:latest", "app:v2")
	assert.Equal(t, "app:latest,app:v2", Label(tagged, false))
}

func TestEmptyForest(t *testing.T) {
	f := forest.Build(nil)
	assert.Empty(t, slices.Collect(View(f, Options{})))
	assert.Empty(t, slices.Collect(View(f, Options{Mode: ModeLeafs})))
}

func TestTreeStopsEarly(t *testing.T) {
	f := forest.Build(fixture())

	var got []string
	for line := range Tree(f, Options{}) {
		got = append(got, line)
		if len(got) == 2 {
			break
		}
	}
	assert.Len(t, got, 2)
}
