package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/angch/vimp/internal/archive"

	flag "github.com/spf13/pflag"
)

const progName = "todoclean"

// Command is one todoclean subcommand.
//
// Usage starts with the command name; the rest is shown verbatim in help,
// e.g. "render <todo|history>".
type Command struct {
	Flags *flag.FlagSet
	Usage string
	Short string
	// Long replaces Short in "<cmd> --help" when set.
	Long string

	// MaxArgs is the number of positional arguments Exec accepts. Extra
	// arguments fail with [archive.ErrUnexpectedArgument] before Exec runs.
	MaxArgs int

	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name is the first word of Usage.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine is the command's row in the top-level usage listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-24s %s", c.Usage, c.Short)
}

// writeHelp renders "<cmd> --help" to w.
func (c *Command) writeHelp(w io.Writer) {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	_, _ = fmt.Fprintf(w, "Usage: %s %s\n\n%s\n", progName, c.Usage, desc)

	if c.Flags == nil || !c.Flags.HasFlags() {
		return
	}

	_, _ = fmt.Fprint(w, "\nFlags:\n")
	c.Flags.SetOutput(w)
	c.Flags.PrintDefaults()
	c.Flags.SetOutput(io.Discard)
}

// PrintHelp writes the command help to stdout.
func (c *Command) PrintHelp(o *IO) {
	var buf strings.Builder

	c.writeHelp(&buf)
	o.Printf("%s", buf.String())
}

// Run parses args, checks the positional count and runs Exec. The returned
// exit code includes any warnings Exec queued on o.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(io.Discard)

	if err := c.Flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)

			return 0
		}

		// Bad flags get the help text so the valid ones are visible.
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	positional := c.Flags.Args()
	if len(positional) > c.MaxArgs {
		o.ErrPrintln("error:", fmt.Errorf("%w: %s", archive.ErrUnexpectedArgument, positional[c.MaxArgs]))

		return 1
	}

	if err := c.Exec(ctx, o, positional); err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}
