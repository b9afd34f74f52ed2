package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"), nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/graphql", cfg.GraphQLURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 14, cfg.Share.ExpiryDays)
	assert.Equal(t, MailNone, cfg.Mail.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	path := writeConfig(t, `
graphql_url: https://api.example.com/graphql
page_size: 25
cache:
  ttl: 30s
mail:
  backend: smtp
  smtp:
    host: smtp.example.com
    from: plans@example.com
`)
	t.Setenv("MONEYPLAN_PAGE_SIZE", "50")
	t.Setenv("MONEYPLAN_MAIL_SMTP_PORT", "2525")
	t.Setenv("MONEYPLAN_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("graphql-url", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level=error"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/graphql", cfg.GraphQLURL, "unset flag does not override the file")
	assert.Equal(t, 50, cfg.PageSize, "env overrides file")
	assert.Equal(t, "error", cfg.LogLevel, "flag overrides env")
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 2525, cfg.Mail.SMTP.Port)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTP.Host)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate_AggregatesProblems(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"), nil)
	require.NoError(t, err)

	cfg.GraphQLURL = "ftp://example.com"
	cfg.PageSize = 0
	cfg.LogLevel = "loud"
	cfg.Mail.Backend = MailAMQP
	cfg.Mail.AMQP.URL = "http://broker"

	err = cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "graphql_url scheme")
	assert.Contains(t, msg, "page_size")
	assert.Contains(t, msg, "log_level")
	assert.Contains(t, msg, "mail.amqp.url scheme")
}

func TestValidate_SMTPRequiresHost(t *testing.T) {
	cfg, err := Load(writeConfig(t, "mail:\n  backend: smtp\n"), nil)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.smtp.host is required")
	assert.Contains(t, err.Error(), "mail.smtp.from is required")
}
