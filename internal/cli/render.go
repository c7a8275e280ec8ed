package cli

import (
	"context"

	"github.com/angch/vimp/internal/archive"
	"github.com/angch/vimp/internal/fs"

	flag "github.com/spf13/pflag"
)

// RenderCmd returns the render command.
func RenderCmd(base *archive.LoadConfigInput) *Command {
	flags := flag.NewFlagSet("render", flag.ContinueOnError)
	paths := addPathFlags(flags, false)

	return &Command{
		Flags:   flags,
		Usage:   "render <todo|history>",
		Short:   "Render a document as HTML",
		MaxArgs: 1,
		Long: `Render the TODO file or the history file as HTML on stdout.

Task items become checkboxes. A missing file renders as nothing.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return archive.ErrDocumentRequired
			}

			doc, err := archive.ParseDocument(args[0])
			if err != nil {
				return err
			}

			cfg, err := paths.load(base)
			if err != nil {
				return err
			}

			return archive.New(fs.NewReal(), cfg).RenderHTML(ioWriter{o}, doc)
		},
	}
}

// ioWriter adapts IO's stdout to io.Writer.
type ioWriter struct{ o *IO }

func (w ioWriter) Write(p []byte) (int, error) {
	w.o.Printf("%s", p)

	return len(p), nil
}
