package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leefowlercu/pais-hooks/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "pais",
	Short: "Hook dispatch and command security validation for AI agents",
	Long: heredoc.Doc(`
		pais is invoked by a host AI agent once per lifecycle event. It classifies
		every shell command the agent wants to run, enforces the research notes
		layout, captures session history, retitles the terminal tab, and runs
		plugin hook scripts.

		Exit code 0 allows the action; exit code 2 blocks it and the reason is
		written to stderr. Logging goes to the configured log file only so that
		stdout and stderr stay reserved for the host.
	`),
	PersistentPreRunE: runInit,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (default: ~/.config/pais/pais.yaml)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultConfig.Logging.Level, "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultConfig.Logging.Format, "Logging format (json, text)")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(securityCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	if err := config.InitConfig(configPath); err != nil {
		return fmt.Errorf("failed to initialize configuration; %w", err)
	}

	return nil
}

// exitCodeError ends the process with a specific status and no error message
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps an Execute error to a process exit status
func ExitCode(err error) int {
	var exitErr exitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return 1
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("pais version {{.Version}}\n")
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()

	if err != nil {
		var exitErr exitCodeError
		if errors.As(err, &exitErr) {
			return err
		}

		cmd, _, _ := rootCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = rootCmd
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Fprintf(os.Stderr, "\n")
			cmd.SetOut(os.Stderr)
			cmd.Usage()
		}

		return err
	}

	return nil
}
