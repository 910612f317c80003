package images

import (
	"slices"
	"strings"
	"time"
)

// layerChain describes an image by the ordered diff ids of its root filesystem.
// Sources that carry no explicit parent field use it to infer derivation.
type layerChain struct {
	ID      string
	Created time.Time
	DiffIDs []string
}

// deriveParents maps image id to parent id. The parent of an image is the
// image whose layer chain is the longest strict prefix of its own; among
// images sharing that chain the oldest wins, then the smallest id.
func deriveParents(chains []layerChain) map[string]string {
	byChain := make(map[string][]layerChain, len(chains))
	for _, c := range chains {
		key := chainKey(c.DiffIDs)
		byChain[key] = append(byChain[key], c)
	}
	for _, group := range byChain {
		slices.SortFunc(group, func(a, b layerChain) int {
			if n := a.Created.Compare(b.Created); n != 0 {
				return n
			}
			return strings.Compare(a.ID, b.ID)
		})
	}

	parents := make(map[string]string)
	for _, c := range chains {
		for k := len(c.DiffIDs) - 1; k > 0; k-- {
			group := byChain[chainKey(c.DiffIDs[:k])]
			if len(group) > 0 {
				parents[c.ID] = group[0].ID
				break
			}
		}
	}
	return parents
}

func chainKey(diffIDs []string) string {
	return strings.Join(diffIDs, ",")
}
