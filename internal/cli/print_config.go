package cli

import (
	"context"
	"strconv"

	"github.com/angch/vimp/internal/archive"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(base *archive.LoadConfigInput) *Command {
	flags := flag.NewFlagSet("print-config", flag.ContinueOnError)
	paths := addPathFlags(flags, true)

	return &Command{
		Flags: flags,
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			cfg, err := paths.load(base)
			if err != nil {
				return err
			}

			execPrintConfig(io, &cfg)

			return nil
		},
	}
}

func execPrintConfig(io *IO, cfg *archive.Config) {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("todo_file=" + cfg.TodoFileAbs)
	io.Println("history_file=" + cfg.HistoryFileAbs)
	io.Println("history_title=" + cfg.HistoryTitle)
	io.Println("lock=" + strconv.FormatBool(cfg.UseLock))
	io.Println("lock_timeout=" + cfg.LockTimeoutDuration.String())

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}
}
