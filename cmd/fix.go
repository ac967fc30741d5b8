package cmd

import (
	"github.com/spf13/cobra"
)

var fixAutoFlag bool

var fixCmd = &cobra.Command{
	Use:   "fix <file> [start-end] [instruction...]",
	Short: "Propose and apply security fixes",
	Long: `Asks the model for a secure replacement of the file, or of the given line
range, shows the diff and applies it after confirmation. When
backupOriginalFile is on, the replaced lines are saved to <file>.backup first.`,
	Example: `  shield fix index.js
  shield fix index.js 25-30
  shield fix vulnerable-code.js --autofix`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, "fix", args, fixAutoFlag)
	},
}

func init() {
	fixCmd.Flags().BoolVar(&fixAutoFlag, "autofix", false, "Apply the proposed change without asking")
}
