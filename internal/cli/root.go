// Package cli holds the contentgen command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/easycontent/contentgen/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "contentgen",
	Short: "Easy Content Generator API server",
	Long: `Easy Content Generator API server. Without a subcommand it serves HTTP,
the same as:

	contentgen serve
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
