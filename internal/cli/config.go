package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/quickspin-saas/qspin-shim/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage shim settings",
	Long: `Read and write qspin-shim configuration stored at ~/.qspin-shim/config.yaml.
Every key can also be set through a QSPIN_SHIM_<KEY> environment variable.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKnown(args[0]) {
			return fmt.Errorf("unknown config key %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configuration value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, config.Get(key))
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a config file against the schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.FilePath()
		if len(args) == 1 {
			path = args[0]
		}

		result, err := config.ValidateFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No config file at %s; defaults apply.\n", path)
				return nil
			}
			return err
		}

		if result.Valid {
			success.Fprintf(cmd.OutOrStdout(), "✅ %s is valid\n", path)
			return nil
		}

		errOut := cmd.ErrOrStderr()
		failure.Fprintf(errOut, "❌ %s is invalid:\n", path)
		for _, issue := range result.Issues {
			loc := issue.Path
			if loc == "" {
				loc = "/"
			}
			fmt.Fprintf(errOut, "  %s: %s\n", loc, issue.Message)
		}
		return &exitError{code: 1}
	},
}
