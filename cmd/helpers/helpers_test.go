package helpers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinc-sig/figbed/cmd/config"
	"github.com/zinc-sig/figbed/internal/output"
	"github.com/zinc-sig/figbed/internal/webhook"
)

func defaultWebhookFlags() config.WebhookConfig {
	return config.WebhookConfig{
		Method:     "POST",
		AuthType:   webhook.AuthNone,
		Timeout:    "30s",
		Retries:    3,
		RetryDelay: "1s",
	}
}

func TestParseFileArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantMode  output.Mode
		wantFiles []string
	}{
		{name: "urls", args: []string{"a.png", "b.png"}, wantMode: output.ModeURL, wantFiles: []string{"a.png", "b.png"}},
		{name: "markdown", args: []string{"md", "a.png"}, wantMode: output.ModeMarkdown, wantFiles: []string{"a.png"}},
		{name: "md not first", args: []string{"a.png", "md"}, wantMode: output.ModeURL, wantFiles: []string{"a.png", "md"}},
		{name: "only md", args: []string{"md"}, wantMode: output.ModeMarkdown, wantFiles: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, files := ParseFileArgs(tt.args)
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.wantFiles, files)
		})
	}
}

func TestParseWebhookConfigToInternal_NoURL(t *testing.T) {
	flags := defaultWebhookFlags()

	cfg, retry, err := ParseWebhookConfigToInternal(&flags)

	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Nil(t, retry)
}

func TestParseWebhookConfigToInternal_Flags(t *testing.T) {
	flags := defaultWebhookFlags()
	flags.URL = "https://hooks.example.com/figbed"
	flags.Method = "put"
	flags.AuthType = webhook.AuthBearer
	flags.AuthToken = "tok"
	flags.Timeout = "5s"
	flags.Retries = 0
	flags.RetryDelay = "250ms"

	cfg, retry, err := ParseWebhookConfigToInternal(&flags)

	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/figbed", cfg.URL)
	assert.Equal(t, "PUT", cfg.Method)
	assert.Equal(t, webhook.AuthBearer, cfg.AuthType)
	assert.Equal(t, "tok", cfg.AuthToken)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 0, retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, retry.InitialDelay)
}

func TestParseWebhookConfigToInternal_Sources(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hook.yaml")
	require.NoError(t, os.WriteFile(file, []byte("url: https://file.example.com\nretries: 5\nheaders:\n  X-Team: docs\n"), 0o644))

	flags := defaultWebhookFlags()
	flags.ConfigFile = file
	flags.Config = `{"timeout":"10s"}`
	flags.ConfigKV = []string{"url=https://kv.example.com"}

	cfg, retry, err := ParseWebhookConfigToInternal(&flags)

	require.NoError(t, err)
	assert.Equal(t, "https://kv.example.com", cfg.URL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, map[string]string{"X-Team": "docs"}, cfg.Headers)
	assert.Equal(t, 5, retry.MaxRetries)
}

func TestParseWebhookConfigToInternal_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.WebhookConfig)
		wantErr string
	}{
		{name: "bad timeout", mutate: func(c *config.WebhookConfig) { c.Timeout = "later" }, wantErr: "invalid webhook timeout"},
		{name: "zero timeout", mutate: func(c *config.WebhookConfig) { c.Timeout = "0s" }, wantErr: "must be positive"},
		{name: "bad delay", mutate: func(c *config.WebhookConfig) { c.RetryDelay = "x" }, wantErr: "invalid webhook retry delay"},
		{name: "negative retries", mutate: func(c *config.WebhookConfig) { c.Retries = -1 }, wantErr: "must not be negative"},
		{name: "token missing", mutate: func(c *config.WebhookConfig) { c.AuthType = webhook.AuthBearer }, wantErr: "requires a token"},
		{name: "bad json", mutate: func(c *config.WebhookConfig) { c.Config = "{" }, wantErr: "failed to build webhook config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := defaultWebhookFlags()
			flags.URL = "https://hooks.example.com"
			tt.mutate(&flags)

			_, _, err := ParseWebhookConfigToInternal(&flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "********", maskSecret("secret_key", "s"))
	assert.Equal(t, "********", maskSecret("access_key", "a"))
	assert.Equal(t, "********", maskSecret("account_key", "k"))
	assert.Equal(t, "********", maskSecret("AUTH_TOKEN", "t"))
	assert.Equal(t, "play.min.io", maskSecret("endpoint", "play.min.io"))
	assert.Equal(t, true, maskSecret("secure", true))
}

func TestOutputResults(t *testing.T) {
	outcomes := []output.Outcome{
		{Path: "a.png", URL: "https://b/a.png", Display: "ts"},
		{Path: "b.png", Err: errors.New("failed to upload b.png: nope")},
	}

	t.Run("lines", func(t *testing.T) {
		var out, errOut bytes.Buffer
		report := output.NewReport(output.ModeMarkdown, "minio", "pics", outcomes)

		summary, err := OutputResults(&out, &errOut, outcomes, report, false)

		require.NoError(t, err)
		assert.Equal(t, output.Summary{Succeeded: 1, Failed: 1}, summary)
		assert.Equal(t, "![ts](https://b/a.png)\n", out.String())
		assert.Equal(t, "failed to upload b.png: nope\n", errOut.String())
	})

	t.Run("json", func(t *testing.T) {
		var out, errOut bytes.Buffer
		report := output.NewReport(output.ModeURL, "minio", "pics", outcomes)

		_, err := OutputResults(&out, &errOut, outcomes, report, true)

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"mode": "url", "provider": "minio", "bucket": "pics", "succeeded": 1, "failed": 1,
			"files": [
				{"path": "a.png", "status": "success", "url": "https://b/a.png", "output": "https://b/a.png"},
				{"path": "b.png", "status": "failed", "error": "failed to upload b.png: nope"}
			]
		}`, out.String())
		assert.Equal(t, "failed to upload b.png: nope\n", errOut.String())
	})
}

func TestNewLogger_Levels(t *testing.T) {
	var quiet, loud bytes.Buffer

	NewLogger(&quiet, false).Debug("hidden")
	NewLogger(&quiet, false).Error("shown")
	NewLogger(&loud, true).Debug("visible")

	assert.NotContains(t, quiet.String(), "hidden")
	assert.Contains(t, quiet.String(), "shown")
	assert.Contains(t, loud.String(), "visible")
}
