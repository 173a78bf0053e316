// Package config gathers what a run needs: API and web UI credentials from the environment, and
// run settings from flags and the YAML config file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
)

const (
	DefaultAPIBase   = "https://api.itglue.com"
	DefaultStateDir  = "~/.local/state/itglue-audit"
	DefaultOutput    = "itglue_passwords"
	BackendJSON      = "json"
	BackendSQLite    = "sqlite"
	OrgCacheFile     = "org_cache.json"
	FolderCacheFile  = "folder_cache.json"
	RecordCacheFile  = "record_cache.json"
	DatabaseFile     = "itglue-audit.db"
	redactedSentinel = "<redacted>"
)

type APICredentials struct {
	Key  string `env:"ITGLUE_API_KEY" yaml:"key" validate:"required"`
	Base string `env:"ITGLUE_API_BASE" envDefault:"https://api.itglue.com" yaml:"base" validate:"required,url"`
}

type UICredentials struct {
	Base       string `env:"ITGLUE_UI_BASE" yaml:"base" validate:"required,url"`
	Username   string `env:"ITGLUE_USERNAME" yaml:"username" validate:"required"`
	Password   string `env:"ITGLUE_PASSWORD" yaml:"password" validate:"required"`
	TOTPSecret string `env:"ITGLUE_TOTP_SECRET" yaml:"totp-secret" validate:"required"`
}

// Credentials only ever come from the environment, never the config file.
type Credentials struct {
	API APICredentials `yaml:"api"`
	UI  UICredentials  `yaml:"ui"`
}

// LoadCredentials reads Credentials from the environment.  Nothing is validated yet; commands
// check only the half they need.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := env.Parse(&c); err != nil {
		return Credentials{}, fmt.Errorf("config: error reading environment: %w", err)
	}
	return c, nil
}

func (c Credentials) ValidateAPI() error {
	return validate(c.API)
}

func (c Credentials) ValidateUI() error {
	return validate(c.UI)
}

// Redacted returns a copy safe to print.
func (c Credentials) Redacted() Credentials {
	c.API.Key = redact(c.API.Key)
	c.UI.Password = redact(c.UI.Password)
	c.UI.TOTPSecret = redact(c.UI.TOTPSecret)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return redactedSentinel
}

// Settings are the knobs of a run.  Flags win over the config file.
type Settings struct {
	StateDir     string        `yaml:"state-dir" validate:"required"`
	StoreBackend string        `yaml:"store-backend" validate:"oneof=json sqlite"`
	Output       string        `yaml:"output" validate:"required"`
	Parquet      bool          `yaml:"parquet"`
	PageSize     int           `yaml:"page-size" validate:"min=1,max=1000"`
	MaxAttempts  int           `yaml:"max-attempts" validate:"min=1"`
	LoginTimeout time.Duration `yaml:"login-timeout" validate:"gt=0"`
	ChromePath   string        `yaml:"chrome-path"`
	Headful      bool          `yaml:"headful"`
	WithVCR      bool          `yaml:"with-vcr"`
	LogFile      string        `yaml:"log-file"`
}

// Expand resolves ~ in every path setting.
func (s Settings) Expand() (Settings, error) {
	for _, p := range []*string{&s.StateDir, &s.Output, &s.ChromePath, &s.LogFile} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return s, fmt.Errorf("config: unable to expand homedir in %s: %w", *p, err)
		}
		*p = expanded
	}
	return s, nil
}

func (s Settings) Validate() error {
	return validate(s)
}

func (s Settings) OrgCachePath() string {
	return filepath.Join(s.StateDir, OrgCacheFile)
}

func (s Settings) FolderCachePath() string {
	return filepath.Join(s.StateDir, FolderCacheFile)
}

func (s Settings) RecordCachePath() string {
	return filepath.Join(s.StateDir, RecordCacheFile)
}

func (s Settings) DatabasePath() string {
	return filepath.Join(s.StateDir, DatabaseFile)
}

var validate = newValidator()

func newValidator() func(v any) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	// name fields the way the user sets them
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"env", "yaml"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	return func(s any) error {
		err := v.Struct(s)
		if err == nil {
			return nil
		}

		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("config: validation error: %w", err)
		}

		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msg := fmt.Sprintf("%s: rule '%s'", e.Field(), e.Tag())
			if e.Param() != "" {
				msg += fmt.Sprintf(" (expected: %s)", e.Param())
			}
			msgs = append(msgs, msg)
		}
		return fmt.Errorf("config: invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
	}
}
