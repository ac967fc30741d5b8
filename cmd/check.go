package cmd

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file> [start-end] [instruction...]",
	Short: "Analyze a file or line range for security issues",
	Long: `Sends the file, or the given 1-based inclusive line range, to the model
and prints the issues it reports along with the checks performed.`,
	Example: `  shield check index.js
  shield check index.js 10-50
  shield check index.js for sql injection`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, "check", args, false)
	},
}
