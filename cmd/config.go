package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alantheprice/shield/pkg/configuration"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Args:  cobra.NoArgs,
	RunE:  showConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration with the API key masked",
	Args:  cobra.NoArgs,
	RunE:  showConfig,
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\nConfig file: %s\n", data, path)
	return nil
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a setting and save the config file",
	Long: "Keys: " + strings.Join(configuration.Keys(), ", ") + `

Security rules are addressed as rules.<name>, e.g. rules.injection.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		key, value := args[0], strings.Join(args[1:], " ")
		next, err := cfg.With(key, value)
		if err != nil {
			return err
		}
		if err := next.Save(path); err != nil {
			return err
		}
		if key == "apiKey" {
			value = next.Redacted().APIKey
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✔ %s set to: %s\n", key, value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
