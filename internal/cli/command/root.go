// Package command provides CLI command definitions for ckptkit-cli.
package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ckptkit-go/internal/cli/output"
	"github.com/yndnr/ckptkit-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "ckptkit-cli",
		Usage:   "checkpoint snapshot management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			InspectCommand(),
			VerifyCommand(),
			PruneCommand(),
			StatusCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "snapshot root directory",
			EnvVars: []string{"CKPTKIT_SAVE_DIR"},
			Value:   "save",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "show wide output (more columns)",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Dir    string
	Output string // table, json
	Wide   bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Dir:    c.String("dir"),
		Output: c.String("output"),
		Wide:   c.Bool("wide"),
	}
}

// formatterFor returns the formatter selected by the global flags.
func formatterFor(flags *GlobalFlags) output.Formatter {
	return output.NewFormatter(output.Format(flags.Output), flags.Wide)
}

// appWriter returns the app's output writer, defaulting to stdout.
// Tests point it at a buffer.
func appWriter(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
