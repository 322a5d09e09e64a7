// Package commands implements the wirehdr CLI.
package commands

import (
	"github.com/danmuck/wirehdr/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
)

// NewRootCmd builds the command tree. A fresh tree per call keeps flag state
// out of package globals.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wirehdr",
		Short: "Encode and decode version 1.0 wire header frames",
		Long: `wirehdr reads and writes the fixed 30-byte header frame that precedes
every request and response body, optionally followed by the body and
authentication bytes it declares.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("wirehdr %s (%s)\n", Version, Commit)
		},
	}
}
