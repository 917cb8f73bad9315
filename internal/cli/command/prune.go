// Package command provides CLI command definitions for ckptkit-cli.
package command

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ckptkit-go/internal/checkpoint"
)

// PruneCommand returns the prune command.
func PruneCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Remove stale work and old generations, keeping only the good snapshot",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Preview without deleting",
			},
		},
		Action: prune,
	}
}

// pruneEntry is one removed (or removable) generation.
type pruneEntry struct {
	Name       string `json:"name"`
	Bytes      int64  `json:"bytes"`
	Removed    bool   `json:"removed"`
	DryRun     bool   `json:"dry_run,omitempty"`
	TotalBytes int64  `json:"-"`
}

func prune(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	dryRun := c.Bool("dry-run")

	entries := make([]pruneEntry, 0, 2)
	for _, name := range []string{checkpoint.DirWork, checkpoint.DirOld} {
		dir := filepath.Join(flags.Dir, name)
		stat, err := os.Stat(dir)
		if err != nil || !stat.IsDir() {
			continue
		}

		entry := pruneEntry{Name: name, Bytes: dirSize(dir), DryRun: dryRun}
		if !dryRun {
			if err := os.RemoveAll(dir); err != nil {
				return err
			}
			entry.Removed = true
		}
		entries = append(entries, entry)
	}

	return formatterFor(flags).Format(appWriter(c), entries)
}

// dirSize sums file sizes under dir; walk errors count as zero.
func dirSize(dir string) int64 {
	var total int64
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
