package forest

import (
	"strings"

	"github.com/samber/lo"

	"github.com/onkernel/imagetree/lib/images"
)

// RootsOnly returns the images with no locally present parent.
func RootsOnly(f *Forest) []int {
	return f.Roots()
}

// LeafsOnly returns the images with no children, root by root in pre-order.
func LeafsOnly(f *Forest) []int {
	var leafs []int
	f.walk(f.roots, func(n int) {
		if f.IsLeaf(n) {
			leafs = append(leafs, n)
		}
	})
	return leafs
}

// matcher decides whether an image answers to one requested name.
type matcher struct {
	name string
	id   string
	ref  *images.NormalizedRef
}

func newMatcher(name string) matcher {
	m := matcher{
		name: name,
		id:   strings.TrimPrefix(name, "sha256:"),
	}
	if ref, err := images.ParseNormalizedRef(name); err == nil {
		m.ref = ref
	}
	return m
}

func (m matcher) matches(rec images.Record) bool {
	if m.name == "" {
		return false
	}
	if m.id != "" && strings.Contains(rec.ID, m.id) {
		return true
	}
	if m.ref != nil && m.ref.IsDigest() {
		return rec.ID == m.ref.DigestHex()
	}
	return lo.ContainsBy(rec.Tags, func(tag string) bool {
		return strings.Contains(tag, m.name) || (m.ref != nil && m.ref.MatchesTag(tag))
	})
}

// FilterByNames returns a new forest holding every image matched by one of
// names together with its ancestors and descendants. Matched images are
// marked. Names that match nothing are returned in request order. f is not
// modified.
func FilterByNames(f *Forest, names []string) (*Forest, []string) {
	keep := make([]bool, f.Len())
	marked := make(map[string]struct{})
	var unmatched []string

	for _, name := range names {
		m := newMatcher(name)
		found := false
		for i := range f.nodes {
			if !m.matches(f.nodes[i].Record) {
				continue
			}
			found = true
			marked[f.nodes[i].Record.ID] = struct{}{}
			keep[i] = true
			for _, a := range f.Ancestors(i) {
				keep[a] = true
			}
			for _, d := range f.Descendants(i) {
				keep[d] = true
			}
		}
		if !found {
			unmatched = append(unmatched, name)
		}
	}

	records := lo.Filter(f.Records(), func(_ images.Record, i int) bool {
		return keep[i]
	})

	sub := Build(records)
	sub.marked = marked
	return sub, unmatched
}
