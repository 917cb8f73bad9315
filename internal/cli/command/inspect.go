// Package command provides CLI command definitions for ckptkit-cli.
package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ckptkit-go/internal/checkpoint"
)

// InspectCommand returns the inspect command.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the good snapshot's descriptor",
		Subcommands: []*cli.Command{
			{
				Name:   "generations",
				Usage:  "List the work/good/old generation directories",
				Action: inspectGenerations,
			},
		},
		Action: inspectDescriptor,
	}
}

func inspectDescriptor(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	good := filepath.Join(flags.Dir, checkpoint.DirGood)
	desc, err := checkpoint.ReadDescriptor(good)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no good snapshot under %s", flags.Dir)
		}
		return err
	}

	return formatterFor(flags).Format(appWriter(c), desc)
}

// generation is one row of the generations listing.
type generation struct {
	Name         string `json:"name"`
	Present      bool   `json:"present"`
	WeightsBytes int64  `json:"weights_bytes"`
	Epoch        *int   `json:"epoch,omitempty"`
}

func inspectGenerations(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	rows := make([]generation, 0, 3)
	for _, name := range []string{checkpoint.DirWork, checkpoint.DirGood, checkpoint.DirOld} {
		dir := filepath.Join(flags.Dir, name)
		g := generation{Name: name}

		if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
			g.Present = true
			if ws, err := os.Stat(filepath.Join(dir, checkpoint.WeightsFile)); err == nil {
				g.WeightsBytes = ws.Size()
			}
			if desc, err := checkpoint.ReadDescriptor(dir); err == nil {
				epoch := desc.Epoch
				g.Epoch = &epoch
			}
		}
		rows = append(rows, g)
	}

	return formatterFor(flags).Format(appWriter(c), rows)
}
