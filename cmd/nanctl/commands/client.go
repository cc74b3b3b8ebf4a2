package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Inspect connected NAN clients",
	}

	cmd.AddCommand(clientListCmd())

	return cmd
}

func clientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected clients and their sessions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			snap, err := fetchSnapshot()
			if err != nil {
				return fmt.Errorf("list clients: %w", err)
			}

			out, err := formatClients(snap.Clients, outputFormat)
			if err != nil {
				return fmt.Errorf("format clients: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}
}
