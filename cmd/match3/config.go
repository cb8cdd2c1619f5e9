package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
)

var (
	flagConfigWrite bool
	flagConfigForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or install the default rules file",
	Long: `Print the default rules YAML. With --write it is saved to
~/.arcade/configs/match3.yaml (or the --config path), where it overrides the
built-in rules. Keys left out of the file keep their defaults.

Examples:
  match3 config > rules.yaml
  match3 config --write
  match3 config --write --config ./rules.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigWrite, "write", false, "Write the defaults to the config path")
	configCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	if !flagConfigWrite {
		_, err := os.Stdout.Write(config.GetDefaultYAML("match3"))
		return err
	}

	path := flagConfig
	if path == "" {
		path = config.UserConfigPath(config.Match3FileName)
		if path == "" {
			return fmt.Errorf("cannot resolve home directory, pass --config")
		}
	}
	path = expandHome(path)
	if err := config.WriteDefaultMatch3(path, flagConfigForce); err != nil {
		return err
	}
	fmt.Printf("Wrote default rules to %s\n", path)
	return nil
}
