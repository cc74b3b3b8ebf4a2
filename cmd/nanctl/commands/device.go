package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Inspect the device-level NAN configuration and capabilities",
	}

	cmd.AddCommand(deviceShowCmd())

	return cmd
}

func deviceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the last-known effective config and HAL capabilities",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			snap, err := fetchSnapshot()
			if err != nil {
				return fmt.Errorf("show device: %w", err)
			}

			out, err := formatDevice(snap, outputFormat)
			if err != nil {
				return fmt.Errorf("format device: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}
}
