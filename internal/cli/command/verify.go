// Package command provides CLI command definitions for ckptkit-cli.
package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ckptkit-go/internal/checkpoint"
	"github.com/yndnr/ckptkit-go/internal/cli/output"
	"github.com/yndnr/ckptkit-go/pkg/checksum"
)

// VerifyCommand returns the verify command.
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:   "verify",
		Usage:  "Recompute the good snapshot's checksum against its descriptor",
		Action: verify,
	}
}

// verifyResult is the outcome of a verify run.
type verifyResult struct {
	Directory string `json:"directory"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Valid     bool   `json:"valid"`
}

func verify(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	good := filepath.Join(flags.Dir, checkpoint.DirGood)
	desc, err := checkpoint.ReadDescriptor(good)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no good snapshot under %s", flags.Dir)
		}
		return err
	}

	if desc.Checksum == checkpoint.ChecksumDisabled {
		return fmt.Errorf("snapshot was written with checksumming disabled")
	}

	weightsPath := filepath.Join(good, desc.ModelFile)

	// Spinner on stderr; stdout stays parseable.
	var spinner *output.Spinner
	if output.Format(flags.Output) == output.FormatTable {
		spinner = output.NewSpinner(os.Stderr, "checksumming "+weightsPath)
		spinner.Start()
	}

	sum, err := checksum.Sum(weightsPath)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	result := verifyResult{
		Directory: good,
		Expected:  desc.Checksum,
		Actual:    sum,
		Valid:     sum == desc.Checksum,
	}

	if err := formatterFor(flags).Format(appWriter(c), result); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("%w: directory %s: expected %s, actual %s",
			checkpoint.ErrChecksumMismatch, good, desc.Checksum, sum)
	}
	return nil
}
