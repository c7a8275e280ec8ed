package cli

import (
	"github.com/angch/vimp/internal/archive"

	flag "github.com/spf13/pflag"
)

// pathFlags are the document overrides shared by every command that reads
// the configuration.
type pathFlags struct {
	todo    string
	history string
	title   string
}

func addPathFlags(flags *flag.FlagSet, withTitle bool) *pathFlags {
	pf := &pathFlags{}

	flags.StringVar(&pf.todo, "todo", "", "Live TODO document (overrides todo_file)")
	flags.StringVar(&pf.history, "history", "", "History archive (overrides history_file)")

	if withTitle {
		flags.StringVar(&pf.title, "title", "", "Archive title (overrides history_title)")
	}

	return pf
}

// load resolves the configuration with the command's overrides applied.
func (pf *pathFlags) load(base *archive.LoadConfigInput) (archive.Config, error) {
	input := *base
	input.TodoOverride = pf.todo
	input.HistoryOverride = pf.history
	input.TitleOverride = pf.title

	return archive.LoadConfig(input)
}
