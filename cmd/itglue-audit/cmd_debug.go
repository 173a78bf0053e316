/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var debugUsage = strings.TrimSpace(`
Audit a single organization by id and export just that.  Handy for checking credentials and
folder lookups before starting a full run; it doesn't touch the organization progress cache.
`)

var debugCmd = &cobra.Command{
	Use:   "debug ORG_ID",
	Short: "Audit a single organization",
	Long:  debugUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		settings, err := currentSettings()
		if err != nil {
			return err
		}

		a, err := openApp(ctx, settings, Logger)
		if err != nil {
			return err
		}
		defer a.close()

		runner, err := a.runner(ctx)
		if err != nil {
			return explainLogin(err)
		}

		summary, err := runner.RunDebug(ctx, args[0])
		summary.Log(Logger)
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	addAuditFlags(debugCmd)
}
