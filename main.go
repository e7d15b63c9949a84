package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cozystack/rlyehctl/pkg/commands"
	"github.com/spf13/cobra"
)

var Version = "dev"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:               "rlyehctl",
	Short:             "Deploy and watch a storage appliance",
	Long:              ``,
	Version:           Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

// skipConfigCommands do not read rlyeh.yaml.
var skipConfigCommands = []string{"completion", "__complete", "simulate"}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

func Execute() error {
	rootCmd.PersistentFlags().StringVar(&commands.Config.RootDir, "root", ".", "root directory of the project")
	rootCmd.PersistentFlags().StringVarP(&commands.GlobalArgs.Endpoint, "endpoint", "e", "",
		fmt.Sprintf("backend address, defaults to globalOptions.endpoint or %s", commands.DefaultEndpoint))
	rootCmd.PersistentFlags().DurationVar(&commands.GlobalArgs.Interval, "interval", 0, "status poll interval, defaults to pollOptions.interval")
	rootCmd.PersistentFlags().StringVar(&commands.GlobalArgs.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&commands.GlobalArgs.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	cmd, err := rootCmd.ExecuteContextC(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())

		errorString := err.Error()
		// arg-flag related validation returns simple `fmt.Errorf`, no way to distinguish these errors
		if strings.Contains(errorString, "arg(s)") || strings.Contains(errorString, "flag") || strings.Contains(errorString, "command") {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, cmd.UsageString())
		}
	}

	return err
}

// isCommandOrParent reports whether cmd or one of its parents is named by names.
func isCommandOrParent(cmd *cobra.Command, names ...string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if slices.Contains(names, c.Name()) {
			return true
		}
	}

	return false
}

func init() {
	commands.UserAgent = "rlyehctl/" + Version

	for _, cmd := range commands.Commands {
		rootCmd.AddCommand(cmd)
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Detect and set project root using fallback strategy
		if err := commands.DetectAndSetRoot(cmd, args); err != nil {
			return err
		}

		if !isCommandOrParent(cmd, skipConfigCommands...) {
			if err := loadConfig(commands.ConfigPath()); err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
		}

		return commands.ApplyConfigDefaults()
	}
}

// loadConfig reads the project configuration. A missing file is not an error.
func loadConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("error reading configuration file: %w", err)
	}

	if err := yaml.Unmarshal(data, &commands.Config); err != nil {
		return fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	return nil
}
