package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pozitronik/steelclock-go/internal/autostart"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage whether steelshell starts automatically on login",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Register steelshell to run on login",
	RunE: func(cmd *cobra.Command, args []string) error {
		return autostart.Enable()
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove steelshell from login startup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return autostart.Disable()
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether steelshell is registered for login startup",
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := autostart.IsEnabled()
		if err != nil {
			return err
		}
		if enabled {
			fmt.Println("autostart: enabled")
		} else {
			fmt.Println("autostart: disabled")
		}
		return nil
	},
}

func init() {
	autostartCmd.AddCommand(autostartEnableCmd, autostartDisableCmd, autostartStatusCmd)
	rootCmd.AddCommand(autostartCmd)
}
