package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Provider implements the Provider interface on top of the AWS SDK
type S3Provider struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string
	pathStyle bool
	baseURL   string
}

// NewS3Provider creates a new S3Provider
func NewS3Provider() *S3Provider {
	return &S3Provider{}
}

// Name returns the provider name
func (p *S3Provider) Name() string {
	return "s3"
}

// Configure loads the AWS configuration. Static credentials are used when
// both keys are given, otherwise the default credential chain applies.
func (p *S3Provider) Configure(config map[string]any) error {
	region, ok := getStringValue(config, "region")
	if !ok {
		return fmt.Errorf("s3: region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	accessKey, _ := getStringValue(config, "access_key")
	secretKey, _ := getStringValue(config, "secret_key")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("s3: failed to load AWS config: %w", err)
	}

	endpoint, _ := getStringValue(config, "endpoint")
	if endpoint != "" {
		if _, _, explicit := splitScheme(endpoint); !explicit {
			endpoint = "https://" + endpoint
		}
	}
	// Custom endpoints are usually S3-compatible services that only
	// support path-style addressing
	pathStyle := getBoolValue(config, "path_style", endpoint != "")

	clientOpts := []func(*s3.Options){}
	if endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	clientOpts = append(clientOpts, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
	})

	p.client = s3.NewFromConfig(awsCfg, clientOpts...)
	p.bucket, _ = getStringValue(config, "bucket")
	p.region = region
	p.endpoint = endpoint
	p.pathStyle = pathStyle
	p.baseURL, _ = getStringValue(config, "base_url")

	return nil
}

// Buckets lists the buckets owned by the configured account
func (p *S3Provider) Buckets(ctx context.Context) ([]Bucket, error) {
	if p.client == nil {
		return nil, fmt.Errorf("s3: provider not configured")
	}

	if p.bucket != "" {
		_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)})
		if err != nil {
			var notFound *types.NotFound
			if errors.As(err, &notFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("s3: failed to check bucket existence: %w", err)
		}
		return []Bucket{p.describe(p.bucket)}, nil
	}

	out, err := p.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("s3: %w", err)
	}

	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, p.describe(aws.ToString(b.Name)))
	}
	return buckets, nil
}

// Upload writes the object with a single PutObject call
func (p *S3Provider) Upload(ctx context.Context, bucket string, req *Request) error {
	if p.client == nil {
		return fmt.Errorf("s3: provider not configured")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(req.Key),
		Body:   req.Content,
	}
	if req.Size >= 0 {
		input.ContentLength = aws.Int64(req.Size)
	}
	if req.ContentType != "" {
		input.ContentType = aws.String(req.ContentType)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3: failed to upload to %s: %w", req.Key, err)
	}
	return nil
}

func (p *S3Provider) describe(name string) Bucket {
	return Bucket{Name: name, BaseURL: s3BaseURL(p.baseURL, p.endpoint, p.region, name, p.pathStyle)}
}

func s3BaseURL(baseURL, endpoint, region, bucket string, pathStyle bool) string {
	if baseURL != "" {
		return withTrailingSlash(baseURL)
	}
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	}

	host, secure, _ := splitScheme(endpoint)
	scheme := "http"
	if secure {
		scheme = "https"
	}
	if pathStyle {
		return fmt.Sprintf("%s://%s/%s/", scheme, withoutTrailingSlash(host), bucket)
	}
	return fmt.Sprintf("%s://%s.%s/", scheme, bucket, withoutTrailingSlash(host))
}
