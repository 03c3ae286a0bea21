package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider implements the Provider interface for MinIO and any other
// S3-compatible service, Aliyun OSS included
type MinioProvider struct {
	client      *minio.Client
	bucket      string
	baseURL     string
	virtualHost bool
}

// NewMinioProvider creates a new MinioProvider
func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

// Name returns the provider name
func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure sets up the MinIO client with the given configuration
func (m *MinioProvider) Configure(config map[string]any) error {
	// Extract required configuration
	endpoint, ok := getStringValue(config, "endpoint")
	if !ok {
		return fmt.Errorf("minio: endpoint is required")
	}

	accessKey, ok := getStringValue(config, "access_key")
	if !ok {
		return fmt.Errorf("minio: access_key is required")
	}

	secretKey, ok := getStringValue(config, "secret_key")
	if !ok {
		return fmt.Errorf("minio: secret_key is required")
	}

	// A scheme on the endpoint wins over the secure option
	host, secure, explicit := splitScheme(endpoint)
	if !explicit {
		secure = getBoolValue(config, "secure", true)
	}
	host = strings.TrimSuffix(host, "/")
	if host == "" {
		return fmt.Errorf("minio: invalid endpoint URL %q", endpoint)
	}

	// Optional configuration with defaults
	region := getStringValueWithDefault(config, "region", "us-east-1")
	virtualHost := getBoolValue(config, "virtual_host", false)

	lookup := minio.BucketLookupPath
	if virtualHost {
		lookup = minio.BucketLookupDNS
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: lookup,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	m.client = client
	m.bucket, _ = getStringValue(config, "bucket")
	m.baseURL, _ = getStringValue(config, "base_url")
	m.virtualHost = virtualHost

	return nil
}

// Buckets lists the buckets visible to the configured credentials
func (m *MinioProvider) Buckets(ctx context.Context) ([]Bucket, error) {
	if m.client == nil {
		return nil, fmt.Errorf("minio: provider not configured")
	}

	if m.bucket != "" {
		exists, err := m.client.BucketExists(ctx, m.bucket)
		if err != nil {
			return nil, fmt.Errorf("minio: failed to check bucket existence: %w", err)
		}
		if !exists {
			return nil, nil
		}
		return []Bucket{m.describe(m.bucket)}, nil
	}

	infos, err := m.client.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}

	buckets := make([]Bucket, 0, len(infos))
	for _, info := range infos {
		buckets = append(buckets, m.describe(info.Name))
	}
	return buckets, nil
}

// Upload uploads content from the request to MinIO in a single PUT
func (m *MinioProvider) Upload(ctx context.Context, bucket string, req *Request) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}

	_, err := m.client.PutObject(ctx, bucket, req.Key, req.Content, req.Size, minio.PutObjectOptions{
		ContentType:      req.ContentType,
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", req.Key, err)
	}

	return nil
}

func (m *MinioProvider) describe(name string) Bucket {
	if m.baseURL != "" {
		return Bucket{Name: name, BaseURL: withTrailingSlash(m.baseURL)}
	}
	return Bucket{Name: name, BaseURL: minioBaseURL(m.client.EndpointURL().Scheme, m.client.EndpointURL().Host, name, m.virtualHost)}
}

func minioBaseURL(scheme, host, bucket string, virtualHost bool) string {
	if virtualHost {
		return fmt.Sprintf("%s://%s.%s/", scheme, bucket, host)
	}
	return fmt.Sprintf("%s://%s/%s/", scheme, host, bucket)
}
