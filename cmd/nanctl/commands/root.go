// Package commands implements the nanctl CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// httpClient is the HTTP client used to fetch /debug/snapshot from nand.
	httpClient = &http.Client{Timeout: 5 * time.Second}

	// daemonAddr is the nand metrics/debug HTTP address (host:port).
	daemonAddr string

	// outputFormat controls the output format for all commands (table or json).
	outputFormat string
)

// rootCmd is the top-level cobra command for nanctl.
var rootCmd = newRootCmd()

// newRootCmd builds the nanctl command tree. The interactive shell
// (shell.go) regenerates a tree of its own before every prompt, so all
// command construction lives in the per-command constructors rather than
// an init func.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nanctl",
		Short: "Introspection CLI for the nand daemon",
		Long:  "nanctl fetches a read-only debug snapshot from the nand daemon's HTTP endpoint to inspect connected clients and sessions.",
		// Silence cobra's built-in usage/error printing so we control it.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&daemonAddr, "addr", "localhost:9100",
		"nand daemon debug/metrics address (host:port)")
	root.PersistentFlags().StringVar(&outputFormat, "format", "table",
		"output format: table, json")

	root.AddCommand(clientCmd())
	root.AddCommand(deviceCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(shellCmd())

	return root
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// fetchSnapshot retrieves the current debug snapshot from nand's
// /debug/snapshot endpoint. It never mutates daemon state -- nanctl is
// read-only by design.
func fetchSnapshot() (snapshotView, error) {
	url := "http://" + daemonAddr + "/debug/snapshot"

	resp, err := httpClient.Get(url)
	if err != nil {
		return snapshotView{}, fmt.Errorf("fetch snapshot from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snapshotView{}, fmt.Errorf("fetch snapshot from %s: unexpected status %s", url, resp.Status)
	}

	var snap snapshotView
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snapshotView{}, fmt.Errorf("decode snapshot from %s: %w", url, err)
	}

	return snap, nil
}
