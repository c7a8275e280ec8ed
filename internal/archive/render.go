package archive

import (
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Document selects one of the two managed files.
type Document string

// Managed documents.
const (
	DocTodo    Document = "todo"
	DocHistory Document = "history"
)

// ParseDocument maps a command-line name to a [Document].
func ParseDocument(name string) (Document, error) {
	switch Document(name) {
	case DocTodo, DocHistory:
		return Document(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocument, name)
	}
}

// markdown renders GFM, so checkbox items come out as disabled inputs.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML writes doc as HTML to w. A missing file renders as nothing.
func (a *Archiver) RenderHTML(w io.Writer, doc Document) error {
	path := a.cfg.TodoFileAbs
	if doc == DocHistory {
		path = a.cfg.HistoryFileAbs
	}

	d, err := a.read(path)
	if err != nil {
		return err
	}

	if err := markdown.Convert(d.content, w); err != nil {
		return fmt.Errorf("rendering %s: %w", doc, err)
	}

	return nil
}
