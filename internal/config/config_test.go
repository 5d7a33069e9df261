package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, "http://localhost:3000", cfg.ConfirmURL)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.MailEnabled())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":8080"
confirm_url: "https://play.example.com"
log_format: json
smtp:
  host: smtp.example.com
  from: noreply@example.com
`), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "https://play.example.com", cfg.ConfirmURL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)
	// Untouched keys keep their defaults.
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.MailEnabled())
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":8080\"\n"), 0o600))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("listen_addr", ":3000", "")
	require.NoError(t, fs.Parse([]string{"--listen_addr", ":9999"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
}

func TestLoad_SecretsFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://game:pw@localhost/game")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "hunter2")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://game:pw@localhost/game", cfg.DatabaseURL)
	assert.Equal(t, "mailer", cfg.SMTPUsername)
	assert.Equal(t, "hunter2", cfg.SMTPPassword)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load("/does/not/exist.yaml", nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "empty listen addr", mutate: func(c *Config) { c.ListenAddr = "" }, wantErr: true},
		{name: "empty confirm url", mutate: func(c *Config) { c.ConfirmURL = "" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "json log format", mutate: func(c *Config) { c.LogFormat = "json" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
