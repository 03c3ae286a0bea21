package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSProvider uploads objects to Google Cloud Storage. Credentials come from
// Application Default Credentials unless credentials_file is set.
type GCSProvider struct {
	client  *storage.Client
	project string
	bucket  string
	baseURL string
}

// NewGCSProvider creates a new GCSProvider
func NewGCSProvider() *GCSProvider {
	return &GCSProvider{}
}

// Name returns the provider name
func (p *GCSProvider) Name() string {
	return "gcs"
}

// Configure creates the GCS client
func (p *GCSProvider) Configure(config map[string]any) error {
	project, _ := getStringValue(config, "project")
	bucket, _ := getStringValue(config, "bucket")
	if project == "" && bucket == "" {
		return fmt.Errorf("gcs: project is required to discover buckets when no bucket is set")
	}

	var opts []option.ClientOption
	if file, ok := getStringValue(config, "credentials_file"); ok {
		opts = append(opts, option.WithCredentialsFile(file))
	}

	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("gcs: failed to create client: %w", err)
	}

	p.client = client
	p.project = project
	p.bucket = bucket
	p.baseURL, _ = getStringValue(config, "base_url")

	return nil
}

// Buckets lists the buckets of the configured project
func (p *GCSProvider) Buckets(ctx context.Context) ([]Bucket, error) {
	if p.client == nil {
		return nil, fmt.Errorf("gcs: provider not configured")
	}

	if p.bucket != "" {
		if _, err := p.client.Bucket(p.bucket).Attrs(ctx); err != nil {
			if errors.Is(err, storage.ErrBucketNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("gcs: failed to check bucket existence: %w", err)
		}
		return []Bucket{p.describe(p.bucket)}, nil
	}

	var buckets []Bucket
	it := p.client.Buckets(ctx, p.project)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		buckets = append(buckets, p.describe(attrs.Name))
	}
	return buckets, nil
}

// Upload writes content to GCS at req.Key. A zero chunk size makes the
// writer send the object in one request instead of a resumable session.
func (p *GCSProvider) Upload(ctx context.Context, bucket string, req *Request) error {
	if p.client == nil {
		return fmt.Errorf("gcs: provider not configured")
	}

	w := p.client.Bucket(bucket).Object(req.Key).NewWriter(ctx)
	w.ContentType = req.ContentType
	w.ChunkSize = 0

	if _, err := io.Copy(w, req.Content); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs: upload write failed for %q: %w", req.Key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs: upload close failed for %q: %w", req.Key, err)
	}
	return nil
}

func (p *GCSProvider) describe(name string) Bucket {
	if p.baseURL != "" {
		return Bucket{Name: name, BaseURL: withTrailingSlash(p.baseURL)}
	}
	return Bucket{Name: name, BaseURL: fmt.Sprintf("%s/%s/", gcsPublicHost, name)}
}
