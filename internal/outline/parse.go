package outline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Classify returns the kind of line and, for headers, its level.
//
// Matching is done on the whitespace-trimmed line. The header level is the
// length of the first space-delimited token, so "## Notes" is level 2.
func Classify(line string) (Kind, int) {
	s := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(s, HeaderMarker):
		token, _, _ := strings.Cut(s, " ")
		return KindHeader, len(token)
	case strings.HasPrefix(s, DoneMarker):
		return KindTaskDone, leafLevel
	case strings.HasPrefix(s, TodoMarker):
		return KindTaskTodo, leafLevel
	case strings.HasPrefix(s, SeparatorMarker):
		return KindSeparator, leafLevel
	default:
		return KindText, leafLevel
	}
}

// Parse reads a document and builds its heading tree.
//
// Lines keep their terminators. A header of level L becomes a child of the
// nearest open header with a smaller level (or the root); every other line
// becomes a child of the deepest open header.
func Parse(r io.Reader) (*Node, error) {
	root := NewRoot()
	stack := []*Node{root}

	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			stack = push(stack, line)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading document: %w", err)
		}
	}

	return root, nil
}

// ParseString parses an in-memory document.
func ParseString(s string) *Node {
	root, _ := Parse(strings.NewReader(s)) // strings.Reader never fails

	return root
}

// push classifies line, attaches it to the tree held by stack and returns
// the updated stack of open ancestors.
func push(stack []*Node, line string) []*Node {
	kind, level := Classify(line)
	node := &Node{Kind: kind, Level: level, Line: line}

	if kind != KindHeader {
		stack[len(stack)-1].add(node)

		return stack
	}

	// The root sits at level 0 and headers start at 1, so it is never popped.
	for len(stack) > 1 && stack[len(stack)-1].Level >= level {
		stack = stack[:len(stack)-1]
	}

	stack[len(stack)-1].add(node)

	return append(stack, node)
}
