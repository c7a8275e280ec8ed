package outline

import "strings"

// Flatten returns the lines of n in document order. The root contributes no
// line of its own. A nil tree flattens to no lines.
func Flatten(n *Node) []string {
	lines := []string{}

	return flattenInto(lines, n)
}

func flattenInto(lines []string, n *Node) []string {
	if n == nil {
		return lines
	}

	if n.Kind != KindRoot {
		lines = append(lines, n.Line)
	}

	for _, child := range n.Children {
		lines = flattenInto(lines, child)
	}

	return lines
}

// Render joins lines back into file content.
func Render(lines []string) []byte {
	var b strings.Builder

	for _, line := range lines {
		b.WriteString(line)
	}

	return []byte(b.String())
}

// CountKind counts the nodes of kind k in n, including n itself.
func CountKind(n *Node, k Kind) int {
	if n == nil {
		return 0
	}

	count := 0
	if n.Kind == k {
		count = 1
	}

	for _, child := range n.Children {
		count += CountKind(child, k)
	}

	return count
}

// CountTodos counts pending items.
func CountTodos(n *Node) int {
	return CountKind(n, KindTaskTodo)
}
