package commands

import (
	"os"

	"github.com/reeflective/console"
	"github.com/spf13/cobra"
)

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive nanctl shell",
		Long:  "Launches a REPL that accepts nanctl subcommands against a running nand daemon. Type 'exit' or 'quit' to leave.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app := console.New("nanctl")

			menu := app.ActiveMenu()
			menu.SetCommands(shellMenuCommands)
			menu.Prompt().Primary = func() string { return "nanctl> " }

			return app.Start()
		},
	}
}

// shellMenuCommands regenerates the shell's command tree before every
// prompt, so flag values from a previous line never leak into the next.
// The tree is the normal nanctl tree minus the shell command itself, plus
// exit; --addr/--format defaults carry over from the invoking command line.
func shellMenuCommands() *cobra.Command {
	root := &cobra.Command{
		Use:           "nanctl",
		Short:         "Introspection CLI for the nand daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&daemonAddr, "addr", daemonAddr,
		"nand daemon debug/metrics address (host:port)")
	root.PersistentFlags().StringVar(&outputFormat, "format", outputFormat,
		"output format: table, json")

	root.AddCommand(clientCmd())
	root.AddCommand(deviceCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(exitCmd())

	return root
}

func exitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "exit",
		Aliases: []string{"quit"},
		Short:   "Leave the interactive shell",
		Args:    cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			os.Exit(0)
		},
	}
}
