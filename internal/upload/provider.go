package upload

import (
	"context"
	"io"
)

// Provider defines the interface for object storage backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Configure sets up the provider with the given configuration
	Configure(config map[string]any) error

	// Buckets returns the buckets visible to the configured credentials. When
	// a bucket is named in the configuration only that bucket is returned.
	Buckets(ctx context.Context) ([]Bucket, error)

	// Upload writes req.Content to bucket at req.Key in a single request
	Upload(ctx context.Context, bucket string, req *Request) error
}

// Bucket is a storage container uploads are written to.
type Bucket struct {
	Name string

	// BaseURL is the public URL prefix of the bucket. It always ends with a
	// slash so that BaseURL+key is the public URL of an object.
	BaseURL string
}

// URL returns the public URL of the object stored at key.
func (b Bucket) URL(key string) string {
	return b.BaseURL + key
}

// Request describes a single object write.
type Request struct {
	// Key is the object path within the bucket.
	Key string

	// Content is the data to be uploaded.
	Content io.Reader

	// Size is the length of Content in bytes, or -1 if unknown.
	Size int64

	// ContentType is the MIME type of the content, e.g. "image/png".
	ContentType string
}
