package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zinc-sig/figbed/cmd/config"
	"github.com/zinc-sig/figbed/cmd/helpers"
	"github.com/zinc-sig/figbed/internal/keygen"
	"github.com/zinc-sig/figbed/internal/output"
	"github.com/zinc-sig/figbed/internal/pipeline"
	"github.com/zinc-sig/figbed/internal/upload"
)

// uploadOptions carries everything a single invocation needs
type uploadOptions struct {
	upload  config.UploadConfig
	common  config.CommonFlags
	webhook config.WebhookConfig

	// keys overrides key generation, nil uses the clock and random IDs
	keys *keygen.Generator
}

// NewRootCommand builds the figbed command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&uploadOptions{})
}

func newRootCommand(opts *uploadOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "figbed [md] <file>...",
		Short: "Upload files to object storage and print their public URLs",
		Long: `figbed uploads local files to a single object storage bucket under unique,
timestamped keys and prints the public URL of every uploaded file.

With a leading "md" argument each line is a Markdown image reference instead,
ready to paste into a document. Files that fail to upload are reported on
stderr without stopping the rest of the batch.`,
		Example: `  figbed photo.png
  figbed md diagram.png screenshot.jpg
  figbed --upload-config-kv endpoint=oss-cn-hangzhou.aliyuncs.com \
         --upload-config-kv access_key=... --upload-config-kv secret_key=... photo.png
  FIGBED_MAX_CONCURRENT=8 figbed --upload-provider s3 --upload-config-file s3.yaml *.png`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}

	helpers.SetupUploadFlags(cmd, &opts.upload)
	helpers.SetupCommonFlags(cmd, &opts.common)
	helpers.SetupWebhookFlags(cmd, &opts.webhook)

	return cmd
}

// Execute runs the root command and exits non-zero on fatal errors
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *uploadOptions) validate() error {
	if o.common.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	if o.common.Prefix == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	return nil
}

func (o *uploadOptions) concurrency() int {
	if o.common.Concurrency > 0 {
		return o.common.Concurrency
	}
	return pipeline.ConcurrencyFromEnv()
}

func (o *uploadOptions) keyGenerator() *keygen.Generator {
	gen := keygen.Generator{}
	if o.keys != nil {
		gen = *o.keys
	}
	gen.Prefix = o.common.Prefix
	return &gen
}

func (o *uploadOptions) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	logger := helpers.NewLogger(stderr, o.common.Verbose)
	defer func() { _ = logger.Sync() }()

	mode, files := helpers.ParseFileArgs(args)

	webhookConfig, retryConfig, err := helpers.ParseWebhookConfigToInternal(&o.webhook)
	if err != nil {
		return err
	}

	// Nothing is contacted until every file checks out
	if err := pipeline.ValidateFiles(files); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	provider, uploadConf, err := helpers.SetupUploadProvider(&o.upload)
	if err != nil {
		return err
	}

	bucket, err := upload.DiscoverBucket(ctx, provider)
	if err != nil {
		return err
	}

	limit := o.concurrency()
	if o.common.Verbose {
		helpers.PrintUploadInfo(stderr, helpers.BatchInfo{
			Provider:    provider,
			Config:      uploadConf,
			Bucket:      bucket,
			Mode:        mode,
			Prefix:      o.common.Prefix,
			Concurrency: limit,
			Files:       len(files),
		})
	}

	target := &pipeline.Target{
		Provider: provider,
		Bucket:   bucket,
		Mode:     mode,
		Logger:   logger,
	}
	tasks := pipeline.NewTasks(files, o.keyGenerator())
	outcomes := pipeline.RunAll(ctx, limit, tasks, target.Run)

	report := output.NewReport(mode, provider.Name(), bucket.Name, outcomes)
	summary, err := helpers.OutputResults(stdout, stderr, outcomes, report, o.common.JSON)
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.String("bucket", bucket.Name),
	}
	if summary.Failed > 0 {
		logger.Warn("batch finished with failures", fields...)
	} else {
		logger.Debug("batch finished", fields...)
	}

	if webhookConfig != nil {
		helpers.SendReport(ctx, webhookConfig, retryConfig, report, logger)
	}

	return nil
}
