package cli

import (
	"context"
	"strconv"

	"github.com/angch/vimp/internal/archive"
	"github.com/angch/vimp/internal/fs"

	flag "github.com/spf13/pflag"
)

// StatusCmd returns the status command.
func StatusCmd(base *archive.LoadConfigInput) *Command {
	flags := flag.NewFlagSet("status", flag.ContinueOnError)
	paths := addPathFlags(flags, false)

	return &Command{
		Flags: flags,
		Usage: "status [flags]",
		Short: "Count pending and completed items",
		Long: `Print what the TODO file holds without changing anything.

Output is key=value lines: todo_file, exists, pending, completed (ready to
archive) and sections.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			cfg, err := paths.load(base)
			if err != nil {
				return err
			}

			st, err := archive.New(fs.NewReal(), cfg).Status()
			if err != nil {
				return err
			}

			o.Println("todo_file=" + cfg.TodoFileAbs)
			o.Println("exists=" + strconv.FormatBool(st.Exists))
			o.Println("pending=" + strconv.Itoa(st.Pending))
			o.Println("completed=" + strconv.Itoa(st.Completed))
			o.Println("sections=" + strconv.Itoa(st.Sections))

			return nil
		},
	}
}
