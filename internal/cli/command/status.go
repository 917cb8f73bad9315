// Package command provides CLI command definitions for ckptkit-cli.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Query a running trainer's monitor endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "monitor server address",
				EnvVars: []string{"CKPTKIT_MONITOR_ADDR"},
				Value:   "http://localhost:6060",
			},
		},
		Action: status,
	}
}

func status(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	addr := c.String("addr")
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr+"/status", nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("monitor unreachable at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("monitor returned status %d", resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode status response: %w", err)
	}

	return formatterFor(flags).Format(appWriter(c), result)
}
