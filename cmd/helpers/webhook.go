package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zinc-sig/figbed/cmd/config"
	cfgparser "github.com/zinc-sig/figbed/internal/config"
	"github.com/zinc-sig/figbed/internal/output"
	"github.com/zinc-sig/figbed/internal/webhook"
)

// WebhookConfigEnv is the environment prefix of webhook settings
const WebhookConfigEnv = "FIGBED_WEBHOOK"

// BuildWebhookConfig builds webhook configuration from all sources.
// Precedence: env < file < json < kv < explicit flags
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	webhookConf, err := cfgparser.Build(WebhookConfigEnv, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}

	// Flags only override when moved off their defaults
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && !strings.EqualFold(cfg.Method, "POST") {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != webhook.AuthNone {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfigToInternal converts the merged webhook settings into
// client configuration. It returns nil configs when no URL is set.
func ParseWebhookConfigToInternal(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	configMap, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	url, _ := configMap["url"].(string)
	if url == "" {
		return nil, nil, nil
	}

	timeout, err := durationValue(configMap, "timeout", 30*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	}
	if timeout <= 0 {
		return nil, nil, fmt.Errorf("webhook timeout must be positive")
	}

	retryDelay, err := durationValue(configMap, "retry_delay", time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	}

	method, _ := configMap["method"].(string)
	if method == "" {
		method = "POST"
	}

	authType, _ := configMap["auth_type"].(string)
	if authType == "" {
		authType = webhook.AuthNone
	}
	authToken := stringValue(configMap["auth_token"])

	// JSON numbers decode as float64, key=value pairs as int
	maxRetries := 3
	switch r := configMap["retries"].(type) {
	case int:
		maxRetries = r
	case float64:
		maxRetries = int(r)
	}
	if maxRetries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must not be negative")
	}

	var headers map[string]string
	if h, ok := configMap["headers"].(map[string]any); ok {
		headers = make(map[string]string, len(h))
		for k, v := range h {
			headers[k] = stringValue(v)
		}
	}

	webhookConfig := &webhook.Config{
		URL:       url,
		Method:    strings.ToUpper(method),
		Headers:   headers,
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: authToken,
	}
	if err := webhookConfig.Validate(); err != nil {
		return nil, nil, err
	}

	retryConfig := &webhook.RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: retryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	return webhookConfig, retryConfig, nil
}

// SendReport posts the batch report. Delivery problems are logged and never
// change the outcome of the batch.
func SendReport(ctx context.Context, cfg *webhook.Config, retry *webhook.RetryConfig, report *output.Report, logger *zap.Logger) bool {
	client := webhook.NewClient(cfg, retry, logger)

	logger.Debug("sending batch report", zap.String("url", cfg.URL))
	if err := client.Send(ctx, report); err != nil {
		logger.Error("webhook delivery failed", zap.String("url", cfg.URL), zap.Error(err))
		return false
	}
	return true
}

func durationValue(m map[string]any, key string, def time.Duration) (time.Duration, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}
	s := stringValue(v)
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
