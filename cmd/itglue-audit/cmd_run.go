/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toothbrush/itglue-audit/folders"
)

var runUsage = strings.TrimSpace(`
Audit every organization.  Organizations are discovered first and remembered in the state
directory; each one is marked processed as soon as its passwords are done, so if the run dies
(throttling, network, Ctrl-C) simply run it again and it carries on where it stopped.
`)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Audit all organizations, resuming an earlier run",
	Long:  runUsage,
	Args:  cobra.ExactArgs(0),
	RunE:  runRun,
}

var Reset bool

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&Reset, "reset", false, "forget which organizations were processed and start over")
	addAuditFlags(runCmd)
}

// addAuditFlags registers the flags shared by commands that drive the browser and export.
func addAuditFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&Output, "output", "o", Output, "export path prefix; .json and .csv are appended")
	cmd.Flags().BoolVar(&Parquet, "parquet", false, "also export <output>.parquet")
	cmd.Flags().DurationVar(&LoginTimeout, "login-timeout", LoginTimeout, "how long to wait for each web UI element")
	cmd.Flags().StringVar(&ChromePath, "chrome-path", "", "Chrome binary to drive (default: let rod find one)")
	cmd.Flags().BoolVar(&Headful, "headful", false, "show the browser window")
}

func runRun(cmd *cobra.Command, args []string) error {
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

	if Reset {
		if err := a.catalog().Reset(ctx); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	runner, err := a.runner(ctx)
	if err != nil {
		return explainLogin(err)
	}

	summary, err := runner.RunFull(ctx)
	summary.Log(Logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			Logger.Warn().Msg("Interrupted; progress saved, run again to resume")
		}
		return fmt.Errorf("run: %w", err)
	}

	return nil
}

func explainLogin(err error) error {
	var le *folders.LoginError
	if errors.As(err, &le) {
		Logger.Error().
			Str("step", le.Step).
			Msg("Couldn't log in to the web UI; check ITGLUE_UI_BASE, ITGLUE_USERNAME, ITGLUE_PASSWORD and ITGLUE_TOTP_SECRET, or try --headful")
	}
	return err
}
