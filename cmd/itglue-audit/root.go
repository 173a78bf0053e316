/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/toothbrush/itglue-audit/folders"
	"github.com/toothbrush/itglue-audit/internal/config"
	"github.com/toothbrush/itglue-audit/internal/logging"
	"github.com/toothbrush/itglue-audit/itglue"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "~/.config/itglue-audit.yaml"

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	StateDir     string
	StoreBackend string
	Output       = config.DefaultOutput
	Parquet      bool
	PageSize     int
	MaxAttempts  int
	LoginTimeout = folders.DefaultWaitTimeout
	ChromePath   string
	Headful      bool
	WithVCR      bool
	LogFile      string

	ParsedConfig YamlConfig
	Credentials  config.Credentials

	Logger    = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logCloser io.Closer
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "itglue-audit",
	Short: "Audit which folder every ITGlue password lives in",
	Long: `
Walks every organization in an ITGlue account, looks up the folder each password is filed in and
exports the lot as JSON and CSV.  Folder names only exist in the web UI, so a headless browser logs
in once and reads them off the folder pages; answers are cached between runs.  Runs are resumable:
organizations that finished are skipped next time.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("itglue-audit: failed to initialise config: %w", err)
		}

		settings, err := currentSettings()
		if err != nil {
			return err
		}
		logger, closer, err := logging.New(os.Stderr, logging.Options{
			Debug:      Debug,
			File:       settings.LogFile,
			MaxSizeMB:  20,
			MaxBackups: 5,
		})
		if err != nil {
			return fmt.Errorf("itglue-audit: %w", err)
		}
		logCloser = closer
		Logger = logger.With().Str("run_id", uuid.NewString()).Logger()
		Logger.Debug().Str("config", Config).Msg("Config loaded")

		creds, err := config.LoadCredentials()
		if err != nil {
			return err
		}
		Credentials = creds

		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/itglue-audit.yaml, respects ITGLUE_AUDIT_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&StateDir, "state-dir", config.DefaultStateDir, "where the organization and folder caches live")
	rootCmd.PersistentFlags().StringVar(&StoreBackend, "store-backend", config.BackendJSON, "cache storage: json or sqlite")
	rootCmd.PersistentFlags().IntVar(&PageSize, "page-size", itglue.DefaultPageSize, "organizations fetched per page")
	rootCmd.PersistentFlags().IntVar(&MaxAttempts, "max-attempts", itglue.DefaultMaxAttempts, "attempts per API request before giving up (throttling doesn't count)")
	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "record API responses with go-vcr and replay them on later runs")
	rootCmd.PersistentFlags().StringVar(&LogFile, "log-file", "", "also write JSON logs to this file, rotated")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := true
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("ITGLUE_AUDIT_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = defaultConfigPath
			explicit = false
		}
	}
	expanded, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("itglue-audit: unable to expand homedir: %w", err)
	}
	Config = expanded

	if _, err := os.Stat(Config); errors.Is(err, os.ErrNotExist) {
		if !explicit {
			// everything can come from flags and the environment
			return nil
		}
		return fmt.Errorf("itglue-audit: specified config file %s does not exist: %w", Config, err)
	}

	yamlFile, err := os.ReadFile(Config)
	if err != nil {
		return fmt.Errorf("itglue-audit: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("itglue-audit: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("itglue-audit: failed to bind flags: %w", err)
	}

	return nil
}

// YamlConfig mirrors the flags; keys are flag names.  Credentials are deliberately absent, they
// only come from the environment.
type YamlConfig struct {
	Debug   *bool `yaml:"debug"`
	Parquet *bool `yaml:"parquet"`
	Headful *bool `yaml:"headful"`
	WithVCR *bool `yaml:"with-vcr"`

	StateDir     string `yaml:"state-dir"`
	StoreBackend string `yaml:"store-backend"`
	Output       string `yaml:"output"`
	ChromePath   string `yaml:"chrome-path"`
	LogFile      string `yaml:"log-file"`
	LoginTimeout string `yaml:"login-timeout"`

	PageSize    int `yaml:"page-size"`
	MaxAttempts int `yaml:"max-attempts"`
}

// Copy config file values onto every flag the user didn't set on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("itglue-audit: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// e.g. `list orgs` has no --parquet, but the YAML file may well set it
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		var value string
		switch field.Kind() {
		case reflect.Ptr:
			// YamlConfig only uses pointers for bools
			b, ok := field.Value().(*bool)
			if !ok {
				return fmt.Errorf("itglue-audit: found unrecognised field: %+v", field)
			}
			if b == nil {
				continue
			}
			value = fmt.Sprintf("%v", *b)

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("itglue-audit: found unrecognised field: %+v", field)
			}
			if s == "" {
				continue
			}
			value = s

		case reflect.Int:
			n, ok := field.Value().(int)
			if !ok {
				return fmt.Errorf("itglue-audit: found unrecognised field: %+v", field)
			}
			if n == 0 {
				continue
			}
			value = fmt.Sprintf("%d", n)

		default:
			return fmt.Errorf("itglue-audit: found unrecognised field: %+v", field)
		}

		if err := cmd.Flags().Set(key, value); err != nil {
			return fmt.Errorf("itglue-audit: bad value for %s in config file: %w", key, err)
		}
	}

	return nil
}

// currentSettings collects the bound flags into validated Settings.
func currentSettings() (config.Settings, error) {
	s, err := config.Settings{
		StateDir:     StateDir,
		StoreBackend: StoreBackend,
		Output:       Output,
		Parquet:      Parquet,
		PageSize:     PageSize,
		MaxAttempts:  MaxAttempts,
		LoginTimeout: LoginTimeout,
		ChromePath:   ChromePath,
		Headful:      Headful,
		WithVCR:      WithVCR,
		LogFile:      LogFile,
	}.Expand()
	if err != nil {
		return s, err
	}

	return s, s.Validate()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		return fmt.Errorf("itglue-audit: execution error: %w", err)
	}

	return nil
}
