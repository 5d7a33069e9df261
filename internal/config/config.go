// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

// Package config loads server configuration from defaults, an optional YAML
// file, and command-line flags, in that order of precedence.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds all server settings. Secrets (database URL, SMTP credentials)
// come from the environment only and are never written to the config file.
type Config struct {
	ListenAddr  string `koanf:"listen_addr"`
	MetricsAddr string `koanf:"metrics_addr"`
	ConfirmURL  string `koanf:"confirm_url"`
	LogFormat   string `koanf:"log_format"`

	SMTP SMTPConfig `koanf:"smtp"`

	// From the environment, not the file.
	DatabaseURL  string `koanf:"-"`
	SMTPUsername string `koanf:"-"`
	SMTPPassword string `koanf:"-"`
}

// SMTPConfig holds the non-secret SMTP settings.
type SMTPConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	From string `koanf:"from"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ListenAddr:  ":3000",
		MetricsAddr: "127.0.0.1:9100",
		ConfirmURL:  "http://localhost:3000",
		LogFormat:   "text",
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then any flags set on fs, then environment secrets.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	// Start from the built-in defaults; unmarshalling only overwrites keys
	// that the file or flags actually set.
	cfg := Defaults()

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at an awkward moment.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr must not be empty")
	}
	if c.ConfirmURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("confirm_url must not be empty")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return oops.Code("CONFIG_INVALID").With("log_format", c.LogFormat).
			Errorf("log_format must be \"text\" or \"json\"")
	}
	return nil
}

// MailEnabled reports whether outbound SMTP is fully configured.
func (c Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}
