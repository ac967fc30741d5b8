package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alantheprice/shield/pkg/console"
)

var (
	cfgFile   string
	assumeYes bool
)

// rootCmd starts the interactive console when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "shield",
	Short: "AI-assisted code security analysis and repair",
	Long: `Shield is a command-line security assistant. It sends a file, or a
range of lines from it, to a language model and either reports the security
issues found or proposes a replacement for those lines.

Run without arguments for the interactive console, or use a subcommand:
  check    - Analyze a file or line range for security issues
  fix      - Propose and apply security fixes
  monitor  - Watch files and check them as they change
  config   - Show or change settings`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			printVersionInfo(cmd.OutOrStdout())
			return nil
		}
		return runConsole(cmd)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ai-agent-config.json)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Apply proposed changes without asking")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information and exit")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func runConsole(cmd *cobra.Command) error {
	var con *console.Console
	confirm := func(prompt string, defaultYes bool) (bool, error) {
		if assumeYes {
			return true, nil
		}
		return con.Confirm(prompt, defaultYes)
	}
	s, err := newSession(cmd, confirm)
	if err != nil {
		return err
	}
	con = console.New(s.agent, s.path, clientFactory, cmd.OutOrStdout())
	return con.Run(cmd.Context())
}
