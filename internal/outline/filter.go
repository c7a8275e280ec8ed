package outline

import "strings"

// FilterHistory returns the completed work in n as plain bullets, nested
// under the same headers as in the source. Checked items have their
// "- [x]" marker replaced by "-", and take the kind the rewritten line
// parses as, so they match the same bullets read back from an archive.
//
// Pending items, prose and rules are dropped. Headers without any surviving
// descendant are dropped too. Returns nil if nothing was completed.
func FilterHistory(n *Node) *Node {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindTaskDone:
		done := n.shallowCopy()
		done.Line = strings.ReplaceAll(n.Line, DoneMarker, BulletMarker)
		done.Kind, done.Level = Classify(done.Line)

		return done
	case KindTaskTodo, KindText, KindSeparator:
		return nil
	case KindRoot, KindHeader:
	}

	var kept []*Node

	for _, child := range n.Children {
		if res := FilterHistory(child); res != nil {
			kept = append(kept, res)
		}
	}

	if len(kept) == 0 {
		return nil
	}

	out := n.shallowCopy()
	out.Children = kept

	return out
}

// FilterTodo returns the live part of n: pending items, prose and rules,
// with completed items removed.
//
// A header (or the root) survives only if, after filtering, it holds a
// pending item, a surviving header, or non-blank text. Separators and blank
// lines never keep a header alive on their own, but stay with a header that
// survives. Returns nil if nothing meaningful remains.
func FilterTodo(n *Node) *Node {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindTaskDone:
		return nil
	case KindTaskTodo, KindText, KindSeparator:
		return n.shallowCopy()
	case KindRoot, KindHeader:
	}

	var kept []*Node

	for _, child := range n.Children {
		if res := FilterTodo(child); res != nil {
			kept = append(kept, res)
		}
	}

	if !hasMeaningfulChild(kept) {
		return nil
	}

	out := n.shallowCopy()
	out.Children = kept

	return out
}

func hasMeaningfulChild(children []*Node) bool {
	for _, child := range children {
		switch child.Kind {
		case KindTaskTodo, KindHeader:
			// A header in a filtered list already passed this check.
			return true
		case KindText:
			if strings.TrimSpace(child.Line) != "" {
				return true
			}
		case KindRoot, KindTaskDone, KindSeparator:
		}
	}

	return false
}
