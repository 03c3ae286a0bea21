package upload

import (
	"fmt"
	"sort"
)

// DefaultProvider is used when no provider is selected explicitly
const DefaultProvider = "minio"

// ProviderFactory is a function that creates a new provider instance
type ProviderFactory func() Provider

// Registry holds all available upload providers
var Registry = make(map[string]ProviderFactory)

// RegisterProvider registers a new upload provider
func RegisterProvider(name string, factory ProviderFactory) {
	Registry[name] = factory
}

// NewProvider creates a new provider instance by name
func NewProvider(name string) (Provider, error) {
	factory, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s", name)
	}
	return factory(), nil
}

// ProviderNames returns the registered provider names in sorted order
func ProviderNames() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// init registers all built-in providers
func init() {
	RegisterProvider("minio", func() Provider {
		return NewMinioProvider()
	})
	RegisterProvider("s3", func() Provider {
		return NewS3Provider()
	})
	RegisterProvider("gcs", func() Provider {
		return NewGCSProvider()
	})
	RegisterProvider("azblob", func() Provider {
		return NewAzureProvider()
	})
}
