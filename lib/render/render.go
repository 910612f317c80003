// Package render turns an image forest into text lines.
//
// A tree looks like:
//
//	alpine:3.17: 2022.11.22 22:19:29, 6.7M
//	├───tesseract-alpine:2022.12.26.001: +21:54, +723M
//	└───a1b2c3d4e5f6: +3s, +0.3K
//	    └───tesseract-alpine:latest,tesseract-alpine:2022.12.26.002: +1s
//
// Each line shows the image label and, after a colon, either absolute values
// (roots and list views) or deltas against the parent line.
package render

import (
	"iter"
	"strings"

	"github.com/onkernel/imagetree/lib/forest"
	"github.com/onkernel/imagetree/lib/images"
)

// Connector glyphs.
const (
	branchMiddle       = "├───"
	branchLast         = "└───"
	branchMiddleMarked = "├─• "
	branchLastMarked   = "└─• "
	indentContinue     = "│   "
	indentBlank        = "    "

	marker        = "• "
	markerIndent  = "  "
	lineageFirst  = "┌─"
	lineageMiddle = "├─"
)

// Mode selects which projection of the forest is printed.
type Mode int

const (
	ModeTree Mode = iota
	ModeRoots
	ModeLeafs
)

// Options control rendering.
type Options struct {
	Mode Mode
	// AlwaysIndent forces the full tree even for a single requested image.
	AlwaysIndent bool
	// NoTrunc prints full ids for untagged images.
	NoTrunc bool
	// Targets is the number of names the forest was filtered by.
	Targets int
}

// View renders f the way the command line presents it: a list for the roots
// and leafs modes, the lineage view when exactly one requested name matched
// exactly one image, and the full tree otherwise.
func View(f *forest.Forest, opts Options) iter.Seq[string] {
	switch opts.Mode {
	case ModeRoots:
		return List(f, forest.RootsOnly(f), opts)
	case ModeLeafs:
		return List(f, forest.LeafsOnly(f), opts)
	}

	if marked := f.MarkedNodes(); !opts.AlwaysIndent && opts.Targets == 1 && len(marked) == 1 {
		return Lineage(f, marked[0], opts)
	}
	return Tree(f, opts)
}

// Tree prints every root at the left margin with its subtree below. Marked
// images get a bullet connector.
func Tree(f *forest.Forest, opts Options) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, root := range f.Roots() {
			var ok bool
			if f.Marked(root) {
				ok = walk(f, root, "", marker, markerIndent, true, opts, yield)
			} else {
				ok = walk(f, root, "", "", "", true, opts, yield)
			}
			if !ok {
				return
			}
		}
	}
}

// Lineage prints the chain of ancestors of image i above it, then its subtree.
func Lineage(f *forest.Forest, i int, opts Options) iter.Seq[string] {
	return func(yield func(string) bool) {
		ancestors := f.Ancestors(i)
		if len(ancestors) == 0 {
			walk(f, i, "", marker, markerIndent, false, opts, yield)
			return
		}

		for k, a := range ancestors {
			glyph := lineageMiddle
			if k == 0 {
				glyph = lineageFirst
			}
			if !yield(glyph + describe(f, a, false, opts)) {
				return
			}
		}
		walk(f, i, "", branchLastMarked, indentBlank, false, opts, yield)
	}
}

// List prints one line per node with absolute values.
func List(f *forest.Forest, nodes []int, opts Options) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range nodes {
			if !yield(describe(f, n, true, opts)) {
				return
			}
		}
	}
}

// walk emits node i on a line starting with prefix+branch, then its children
// indented by childPrefix. It returns false once yield asks to stop.
func walk(f *forest.Forest, i int, prefix, branch, childPrefix string, bullets bool, opts Options, yield func(string) bool) bool {
	if !yield(prefix + branch + describe(f, i, false, opts)) {
		return false
	}

	children := f.Children(i)
	for k, c := range children {
		last := k == len(children)-1
		marked := bullets && f.Marked(c)

		var b, indent string
		switch {
		case last && marked:
			b, indent = branchLastMarked, indentBlank
		case last:
			b, indent = branchLast, indentBlank
		case marked:
			b, indent = branchMiddleMarked, indentContinue
		default:
			b, indent = branchMiddle, indentContinue
		}

		if !walk(f, c, childPrefix, b, childPrefix+indent, bullets, opts, yield) {
			return false
		}
	}
	return true
}

// Label returns the tag list of rec, or its id when it has no tags.
func Label(rec images.Record, noTrunc bool) string {
	if rec.HasTags() {
		return strings.Join(rec.Tags, ",")
	}
	if noTrunc {
		return rec.ID
	}
	return rec.ShortID()
}

// describe renders the label of node i followed by its time and size.
func describe(f *forest.Forest, i int, absolute bool, opts Options) string {
	rec := f.Record(i)
	label := Label(rec, opts.NoTrunc)

	var info []string
	if absolute || f.IsRoot(i) {
		info = append(info, FormatTimestamp(rec.Created), PrettySize(rec.Size))
	} else {
		parent := f.Record(f.Parent(i))
		if dt := rec.Created.Sub(parent.Created); dt > hideDeltaBelow {
			if s, ok := TimeDelta(dt); ok {
				info = append(info, s)
			} else {
				info = append(info, FormatTimestamp(rec.Created))
			}
		}
		if s := SizeDelta(rec.Size - parent.Size); s != "" {
			info = append(info, s)
		}
	}

	if len(info) == 0 {
		return label
	}
	return label + ": " + strings.Join(info, ", ")
}
