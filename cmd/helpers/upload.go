package helpers

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/zinc-sig/figbed/cmd/config"
	cfgparser "github.com/zinc-sig/figbed/internal/config"
	"github.com/zinc-sig/figbed/internal/output"
	"github.com/zinc-sig/figbed/internal/upload"
)

// UploadConfigEnv is the environment prefix of provider settings
const UploadConfigEnv = "FIGBED_UPLOAD_CONFIG"

// BuildUploadConfig builds upload configuration from all sources
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	result, err := cfgparser.Build(UploadConfigEnv, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	return result, nil
}

// SetupUploadProvider creates and configures the selected provider. No
// network call is made.
func SetupUploadProvider(cfg *config.UploadConfig) (upload.Provider, map[string]any, error) {
	uploadConf, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := upload.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(uploadConf); err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, uploadConf, nil
}

// BatchInfo describes a batch about to be uploaded
type BatchInfo struct {
	Provider    upload.Provider
	Config      map[string]any
	Bucket      upload.Bucket
	Mode        output.Mode
	Prefix      string
	Concurrency int
	Files       int
}

// PrintUploadInfo prints upload configuration in verbose mode. Credentials
// are masked.
func PrintUploadInfo(w io.Writer, info BatchInfo) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Upload Configuration")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Provider:       %s\n", info.Provider.Name())
	fmt.Fprintf(w, "Bucket:         %s\n", info.Bucket.Name)
	fmt.Fprintf(w, "Base URL:       %s\n", info.Bucket.BaseURL)
	fmt.Fprintf(w, "Prefix:         %s\n", info.Prefix)
	fmt.Fprintf(w, "Output:         %s\n", info.Mode)
	fmt.Fprintf(w, "Concurrency:    %d\n", info.Concurrency)
	fmt.Fprintf(w, "Files:          %d\n", info.Files)

	keys := make([]string, 0, len(info.Config))
	for k := range info.Config {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-14s%v\n", k+":", maskSecret(k, info.Config[k]))
	}
	fmt.Fprintln(w, "----------------------------------------")
}

func maskSecret(key string, value any) any {
	k := strings.ToLower(key)
	for _, s := range []string{"secret", "password", "token", "account_key", "access_key"} {
		if strings.Contains(k, s) {
			return "********"
		}
	}
	return value
}
