/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return fmt.Errorf("version: could not read build info")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "itglue-audit %s (%s)\n", describeBuild(info), info.GoVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Version is overridden with -ldflags "-X main.Version=..." for release builds.
var Version = "unknown"

// describeBuild prefers an explicit Version, then the module version, then the vcs revision.
func describeBuild(info *debug.BuildInfo) string {
	if Version != "unknown" {
		return Version
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	settings := map[string]string{}
	for _, kv := range info.Settings {
		settings[kv.Key] = kv.Value
	}

	rev := settings["vcs.revision"]
	if rev == "" {
		return "devel"
	}
	parts := []string{"rev", rev}
	if settings["vcs.modified"] == "true" {
		parts = append(parts, "dirty")
	}
	if t := settings["vcs.time"]; t != "" {
		parts = append(parts, t)
	}
	return strings.Join(parts, "-")
}
