package main

import (
	"github.com/spf13/cobra"

	"github.com/pozitronik/steelclock-go/internal/shelllog"
)

var (
	flagConfigPath string
	flagLogLevel   string
	flagLogJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "steelshell",
	Short: "Reactive desktop-shell service core",
	Long: `steelshell aggregates audio, Bluetooth, network, media-player,
notification, power, and idle-inhibit state behind a reactive entity
model and exposes it over a local control API and system tray.`,
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "config.json", "Path to steelshell configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Emit logs as JSON instead of console format")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
}

func initLogging() {
	shelllog.Init(shelllog.Config{Level: flagLogLevel, JSON: flagLogJSON})
}
