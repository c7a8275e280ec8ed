package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angch/vimp/internal/archive"
)

const (
	consumedOne    = 1
	consumedTwo    = 2
	consumedNone   = 0
	helpFlag       = "--help"
	defaultCommand = "archive"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A value received on it cancels the running command.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) > 0 {
		args = args[1:]
	}

	base := &archive.LoadConfigInput{Env: env}
	commands := allCommands(base, stdin)

	flags, err := parseGlobalFlags(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, commands)

		return 1
	}

	if flags.help {
		printUsage(out, commands)

		return 0
	}

	base.WorkDirOverride = flags.workDir
	base.ConfigPath = flags.configPath

	name := defaultCommand

	var rest []string

	if len(flags.remaining) > 0 {
		name = flags.remaining[0]
		rest = flags.remaining[1:]
	}

	cmd := findCommand(commands, name)
	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", archive.ErrUnknownCommand, name))
		fprintln(errOut)
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(out, errOut), rest)
}

func allCommands(base *archive.LoadConfigInput, stdin io.Reader) []*Command {
	return []*Command{
		ArchiveCmd(base, stdin),
		StatusCmd(base),
		RenderCmd(base),
		WatchCmd(base),
		PrintConfigCmd(base),
	}
}

func findCommand(commands []*Command, name string) *Command {
	for _, c := range commands {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

type globalFlags struct {
	workDir    string
	configPath string
	help       bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if flags.help {
			break
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", archive.ErrFlagRequiresArg, arg)
		}

		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", archive.ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.help = true

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", archive.ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, `todoclean - archive completed TODO items into a history file

Usage: todoclean [global flags] [command] [flags]

With no command, archive runs.

Global flags:
  -C, --cwd <dir>          Run as if started in <dir>
  -c, --config <file>      Use specified config file
  -h, --help               Show this help

Commands:`)

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}

	fprintln(w)
	fprintln(w, `Run "todoclean <command> --help" for command flags.`)
}
