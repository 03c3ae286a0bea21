package helpers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/figbed/cmd/config"
	"github.com/zinc-sig/figbed/internal/keygen"
	"github.com/zinc-sig/figbed/internal/pipeline"
	"github.com/zinc-sig/figbed/internal/upload"
)

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", upload.DefaultProvider,
		fmt.Sprintf("Storage provider (%s)", strings.Join(upload.ProviderNames(), ", ")))
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON or YAML file containing upload configuration")
}

// SetupCommonFlags adds batch flags to a command
func SetupCommonFlags(cmd *cobra.Command, flags *config.CommonFlags) {
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log upload progress and configuration to stderr")
	cmd.Flags().StringVar(&flags.Prefix, "prefix", keygen.DefaultPrefix, "Top-level directory of generated object keys")
	cmd.Flags().IntVarP(&flags.Concurrency, "concurrency", "c", 0,
		fmt.Sprintf("Maximum uploads in flight (0 = $%s or %d)", pipeline.ConcurrencyEnv, pipeline.DefaultConcurrency))
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the batch report as JSON instead of one line per file")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	// Direct configuration flags
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send the batch report to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: POST, PUT, PATCH")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")

	// Alternative configuration methods
	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON or YAML file containing webhook configuration")
}
