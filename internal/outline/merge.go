package outline

import "strings"

// DefaultHistoryTitle is the heading an archive gets when its first heading
// was copied from the live document.
const DefaultHistoryTitle = "Project History"

// Merge folds delta's children into base in place.
//
// Two nodes match when they have the same kind and the same trimmed line.
// Matching headers are merged recursively; matching leaves are already
// present and are skipped. Everything else is appended, with its subtree,
// after base's existing children. Appended subtrees are shared with delta,
// so delta must not be reused afterwards.
//
// Identity is textual: two different items with the same wording collapse
// into one.
func Merge(base, delta *Node) {
	if base == nil || delta == nil {
		return
	}

	for _, child := range delta.Children {
		match := findMatch(base.Children, child)

		switch {
		case match == nil:
			base.add(child)
		case match.Kind == KindHeader:
			Merge(match, child)
		}
	}
}

// MergeInto merges delta into base and returns the resulting tree.
//
// A nil delta leaves base unchanged. An empty base (first run, fresh
// archive) is replaced by delta as a whole.
func MergeInto(base, delta *Node) *Node {
	if delta == nil {
		if base == nil {
			return NewRoot()
		}

		return base
	}

	if base.IsEmpty() {
		return delta
	}

	Merge(base, delta)

	return base
}

// NormalizeTitle rewrites the first child of root to "# <title>" when it is
// a header mentioning todoName, so the archive is not titled after the live
// document it was extracted from.
func NormalizeTitle(root *Node, todoName, title string) {
	if root.IsEmpty() || todoName == "" {
		return
	}

	first := root.Children[0]
	if first.Kind != KindHeader || !strings.Contains(first.Line, todoName) {
		return
	}

	first.Line = HeaderMarker + " " + title + "\n"
	first.Level = len(HeaderMarker)
}

func findMatch(candidates []*Node, n *Node) *Node {
	want := strings.TrimSpace(n.Line)

	for _, c := range candidates {
		if c.Kind == n.Kind && strings.TrimSpace(c.Line) == want {
			return c
		}
	}

	return nil
}
