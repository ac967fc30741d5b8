package cmd

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var (
	monitorExclude  []string
	monitorInterval time.Duration
	monitorForce    bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <path>",
	Short: "Watch files and check them as they change",
	Long: `Polls the file or directory tree for content changes and runs a security
check on every created or modified file until interrupted. Paths matching
.gitignore, .shieldignore or --exclude are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, nil)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()
		return s.agent.Monitor(ctx, args[0], monitorExclude, monitorInterval, monitorForce)
	},
}

func init() {
	monitorCmd.Flags().StringSliceVar(&monitorExclude, "exclude", nil, "Additional gitignore-style patterns to skip")
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 2*time.Second, "Polling interval")
	monitorCmd.Flags().BoolVar(&monitorForce, "force", false, "Monitor even when monitoringEnabled is false")
}
