package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/angch/vimp/internal/archive"
	"github.com/angch/vimp/internal/fs"

	flag "github.com/spf13/pflag"
)

// WatchCmd returns the watch command.
func WatchCmd(base *archive.LoadConfigInput) *Command {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	paths := addPathFlags(flags, true)
	flags.Duration("debounce", archive.DefaultDebounce, "Quiet period after a write before archiving")
	flags.BoolP("verbose", "v", false, "Print each pipeline step to stderr")

	return &Command{
		Flags: flags,
		Usage: "watch [flags]",
		Short: "Archive whenever the TODO file is saved",
		Long: `Archive once, then again every time the TODO file is written.

Runs until interrupted (Ctrl-C). Files are only rewritten when their
content changes. A failed pass is reported and the watch keeps running.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			cfg, err := paths.load(base)
			if err != nil {
				return err
			}

			debounce, _ := flags.GetDuration("debounce")
			verbose, _ := flags.GetBool("verbose")

			o.SetVerbose(verbose)

			return execWatch(ctx, o, archive.New(fs.NewReal(), cfg), debounce)
		},
	}
}

func execWatch(ctx context.Context, o *IO, a *archive.Archiver, debounce time.Duration) error {
	o.Printf("Watching %s (Ctrl-C to stop)\n", a.Config().TodoFile)

	failed := 0

	err := a.Watch(ctx, archive.WatchOptions{
		Debounce: debounce,
		Logf:     o.Verbosef,
		OnPass: func(res archive.Result, passErr error) {
			if passErr != nil {
				failed++

				o.ErrPrintln("error:", passErr)

				return
			}

			if res.TodoWritten || res.HistoryWritten {
				o.Printf("Archived %d items, %d remaining\n", res.Archived, res.Remaining)
			}
		},
		OnError: func(watchErr error) {
			o.ErrPrintln("error: watcher:", watchErr)
		},
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		o.WarnLLM(fmt.Sprintf("%d archive passes failed", failed), "fix the errors above, then run todoclean archive")
	}

	o.Println("Stopped.")

	return nil
}
