package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pyforge-dev/pyforge/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage saved default answers",
	Long: `Read and write default answers stored at ~/.pyforge/config.yaml.
Saved values fill in any question left unanswered when a project is created.

Known keys:
  ` + strings.Join(config.KnownKeys(), "\n  "),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a default answer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a saved default answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		value := config.Get(args[0])
		fmt.Println(value)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every saved default answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		settings := config.All()
		if len(settings) == 0 {
			fmt.Println("No defaults saved.")
			return nil
		}
		out, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Remove one saved default, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if len(args) == 1 {
			if err := config.Unset(args[0]); err != nil {
				return fmt.Errorf("removing config key %q: %w", args[0], err)
			}
			fmt.Printf("Removed %s\n", args[0])
			return nil
		}
		if err := config.Reset(); err != nil {
			return fmt.Errorf("resetting config: %w", err)
		}
		fmt.Println("Removed all saved defaults.")
		return nil
	},
}
