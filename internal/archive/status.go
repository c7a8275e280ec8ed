package archive

import (
	"github.com/angch/vimp/internal/outline"
)

// Status counts what the live document currently holds.
type Status struct {
	Exists    bool
	Pending   int
	Completed int
	Sections  int
}

// Status reads the live document without modifying anything.
func (a *Archiver) Status() (Status, error) {
	doc, err := a.read(a.cfg.TodoFileAbs)
	if err != nil {
		return Status{}, err
	}

	root := outline.ParseString(string(doc.content))

	return Status{
		Exists:    doc.exists,
		Pending:   outline.CountTodos(root),
		Completed: outline.CountKind(root, outline.KindTaskDone),
		Sections:  outline.CountKind(root, outline.KindHeader),
	}, nil
}
