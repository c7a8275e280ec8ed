// Package outline parses a small markdown subset (headings, checkbox items,
// rules, plain lines) into a heading tree and transforms it.
//
// The tree is owned top-down: every [Node] holds its children and nothing
// points back up. All transformations except [Merge] return fresh nodes and
// leave their input untouched.
package outline

// Kind classifies a single document line.
type Kind int

// Node kinds.
const (
	KindRoot Kind = iota
	KindHeader
	KindTaskDone
	KindTaskTodo
	KindSeparator
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindHeader:
		return "header"
	case KindTaskDone:
		return "task_done"
	case KindTaskTodo:
		return "task_todo"
	case KindSeparator:
		return "separator"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Line markers recognized at the start of a stripped line.
const (
	HeaderMarker    = "#"
	DoneMarker      = "- [x]"
	TodoMarker      = "- [ ]"
	SeparatorMarker = "---"
	BulletMarker    = "-"
)

const (
	rootLevel = 0
	leafLevel = -1
)

// Node is one line of a document, or the synthetic root.
type Node struct {
	Kind Kind

	// Level is the heading depth for headers (count of '#'), 0 for the
	// root and -1 for everything else.
	Level int

	// Line is the raw line including its terminator. Empty for the root.
	Line string

	Children []*Node
}

// NewRoot returns an empty document root.
func NewRoot() *Node {
	return &Node{Kind: KindRoot, Level: rootLevel}
}

// IsEmpty reports whether n is nil or has no children.
func (n *Node) IsEmpty() bool {
	return n == nil || len(n.Children) == 0
}

// shallowCopy returns n without its children.
func (n *Node) shallowCopy() *Node {
	return &Node{Kind: n.Kind, Level: n.Level, Line: n.Line}
}

func (n *Node) add(child *Node) {
	n.Children = append(n.Children, child)
}
