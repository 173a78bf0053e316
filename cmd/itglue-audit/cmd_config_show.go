/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toothbrush/itglue-audit/internal/config"
	"gopkg.in/yaml.v3"
)

type shownConfig struct {
	ConfigFile  string             `yaml:"config-file"`
	Debug       bool               `yaml:"debug"`
	Settings    config.Settings    `yaml:"settings"`
	Credentials config.Credentials `yaml:"credentials"`
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Secrets from
the environment are shown as <redacted> when set.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Note, you can only talk about persistent flags here.  Command-specific ones won't be
		// visible.
		settings, err := currentSettings()
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()

		if err := enc.Encode(shownConfig{
			ConfigFile:  Config,
			Debug:       Debug,
			Settings:    settings,
			Credentials: Credentials.Redacted(),
		}); err != nil {
			return fmt.Errorf("config: couldn't print config: %w", err)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}
