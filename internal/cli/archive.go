package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/angch/vimp/internal/archive"
	"github.com/angch/vimp/internal/fs"

	flag "github.com/spf13/pflag"
)

// ArchiveCmd returns the archive command.
func ArchiveCmd(base *archive.LoadConfigInput, stdin io.Reader) *Command {
	flags := flag.NewFlagSet("archive", flag.ContinueOnError)
	paths := addPathFlags(flags, true)
	flags.Bool("dry-run", false, "Show both new documents without writing")
	flags.BoolP("interactive", "i", false, "Ask before writing")
	flags.Bool("require-changes", false, "Warn and exit 1 when nothing was archived")
	flags.BoolP("verbose", "v", false, "Print each pipeline step to stderr")

	return &Command{
		Flags: flags,
		Usage: "archive [flags]",
		Short: "Move completed items into the history file (default)",
		Long: `Move completed items from the TODO file into the history file.

Completed items ("- [x] ...") are appended to the history file under the
same section headings, written as plain bullets. Sections left without
pending work are removed from the TODO file. Items already in the history
file are not added twice.

Examples:
  todoclean                          # Archive with the configured files
  todoclean archive --dry-run        # Preview both files
  todoclean archive -i               # Confirm before writing
  todoclean archive --todo NOTES.md --history done/NOTES.md`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			cfg, err := paths.load(base)
			if err != nil {
				return err
			}

			dryRun, _ := flags.GetBool("dry-run")
			interactive, _ := flags.GetBool("interactive")
			requireChanges, _ := flags.GetBool("require-changes")
			verbose, _ := flags.GetBool("verbose")

			o.SetVerbose(verbose)

			a := archive.New(fs.NewReal(), cfg)
			opts := archive.RunOptions{Logf: o.Verbosef}

			if dryRun {
				return execArchiveDryRun(o, a, opts)
			}

			if interactive {
				opts.Confirm = confirmPlan(o, stdin)
			}

			return execArchive(ctx, o, a, opts, requireChanges)
		},
	}
}

func execArchive(ctx context.Context, o *IO, a *archive.Archiver, opts archive.RunOptions, requireChanges bool) error {
	res, err := a.Run(ctx, opts)
	if errors.Is(err, archive.ErrAborted) {
		o.Println("Cancelled.")

		return nil
	}

	if err != nil {
		return err
	}

	if requireChanges && res.Archived == 0 {
		o.WarnLLM(archive.ErrNothingArchived.Error(), "mark finished items with \"- [x]\" in "+res.TodoPath+" first")
	}

	for _, line := range res.Summary() {
		o.Println(line)
	}

	return nil
}

func execArchiveDryRun(o *IO, a *archive.Archiver, opts archive.RunOptions) error {
	plan, err := a.Plan(opts)
	if err != nil {
		return err
	}

	res := plan.Result

	o.Println("Dry run, nothing written.")
	o.Println()
	printDocument(o, res.HistoryPath, plan.HistoryContent)
	o.Println()
	printDocument(o, res.TodoPath, plan.TodoContent)
	o.Println()
	o.Printf("History would be written to %s (%d lines)\n", res.HistoryPath, res.HistoryLines)
	o.Printf("TODO would be updated %s (%d lines)\n", res.TodoPath, res.TodoLines)
	o.Printf("Items to archive: %d\n", res.Archived)
	o.Printf("Remaining items: %d\n", res.Remaining)

	return nil
}

func printDocument(o *IO, name string, content []byte) {
	o.Printf("--- %s\n", name)

	if len(content) == 0 {
		o.Println("(empty)")

		return
	}

	o.Printf("%s", content)

	if content[len(content)-1] != '\n' {
		o.Println()
	}
}

// confirmPlan asks before anything is written. A plan that changes nothing
// is accepted without asking.
func confirmPlan(o *IO, stdin io.Reader) func(*archive.Plan) (bool, error) {
	return func(plan *archive.Plan) (bool, error) {
		if !plan.Result.Changed {
			return true, nil
		}

		question := fmt.Sprintf("Archive %d completed items to %s? (yes/no): ", plan.Result.Archived, plan.Result.HistoryPath)

		answer, err := prompt(o, stdin, question)
		if err != nil {
			return false, nil //nolint:nilerr // EOF or Ctrl-C means no
		}

		answer = strings.TrimSpace(strings.ToLower(answer))

		return answer == "yes" || answer == "y", nil
	}
}

// prompt reads one answer. The process's own stdin gets liner line
// editing; any other reader is read directly.
func prompt(o *IO, stdin io.Reader, question string) (string, error) {
	if f, ok := stdin.(*os.File); ok && f == os.Stdin {
		line := liner.NewLiner()
		defer func() { _ = line.Close() }()

		line.SetCtrlCAborts(true)

		return line.Prompt(question)
	}

	if stdin == nil {
		return "", io.EOF
	}

	o.Printf("%s", question)

	answer, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && answer == "" {
		return "", err
	}

	o.Println()

	return answer, nil
}
