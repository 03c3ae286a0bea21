package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureProvider uploads blobs to Azure Blob Storage. Containers play the
// role of buckets.
type AzureProvider struct {
	client     *azblob.Client
	serviceURL string
	container  string
	baseURL    string
}

// NewAzureProvider creates a new AzureProvider
func NewAzureProvider() *AzureProvider {
	return &AzureProvider{}
}

// Name returns the provider name
func (p *AzureProvider) Name() string {
	return "azblob"
}

// Configure creates the blob service client. A shared account key is used
// when given; otherwise DefaultAzureCredential tries environment, managed
// identity and Azure CLI credentials in turn.
func (p *AzureProvider) Configure(config map[string]any) error {
	account, ok := getStringValue(config, "account")
	if !ok {
		return fmt.Errorf("azblob: account is required")
	}

	serviceURL := getStringValueWithDefault(config, "service_url",
		fmt.Sprintf("https://%s.blob.core.windows.net/", account))
	serviceURL = withTrailingSlash(serviceURL)

	var client *azblob.Client
	if key, ok := getStringValue(config, "account_key"); ok {
		cred, err := azblob.NewSharedKeyCredential(account, key)
		if err != nil {
			return fmt.Errorf("azblob: invalid account key: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return fmt.Errorf("azblob: failed to create client: %w", err)
		}
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return fmt.Errorf("azblob: failed to get Azure credentials: %w", err)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return fmt.Errorf("azblob: failed to create client: %w", err)
		}
	}

	p.client = client
	p.serviceURL = serviceURL
	p.container, _ = firstStringValue(config, "container", "bucket")
	p.baseURL, _ = getStringValue(config, "base_url")

	return nil
}

// Buckets lists the containers of the storage account
func (p *AzureProvider) Buckets(ctx context.Context) ([]Bucket, error) {
	if p.client == nil {
		return nil, fmt.Errorf("azblob: provider not configured")
	}

	if p.container != "" {
		_, err := p.client.ServiceClient().NewContainerClient(p.container).GetProperties(ctx, nil)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("azblob: failed to check container existence: %w", err)
		}
		return []Bucket{p.describe(p.container)}, nil
	}

	var buckets []Bucket
	pager := p.client.NewListContainersPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("azblob: %w", err)
		}
		for _, item := range page.ContainerItems {
			if item.Name != nil {
				buckets = append(buckets, p.describe(*item.Name))
			}
		}
	}
	return buckets, nil
}

// Upload writes the blob with a single Put Blob request
func (p *AzureProvider) Upload(ctx context.Context, bucket string, req *Request) error {
	if p.client == nil {
		return fmt.Errorf("azblob: provider not configured")
	}

	// UploadBuffer needs the whole payload in memory
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return fmt.Errorf("azblob: failed to read data: %w", err)
	}

	opts := &azblob.UploadBufferOptions{}
	if req.ContentType != "" {
		contentType := req.ContentType
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}

	if _, err := p.client.UploadBuffer(ctx, bucket, req.Key, data, opts); err != nil {
		return fmt.Errorf("azblob: failed to upload to %s: %w", req.Key, err)
	}
	return nil
}

func (p *AzureProvider) describe(name string) Bucket {
	if p.baseURL != "" {
		return Bucket{Name: name, BaseURL: withTrailingSlash(p.baseURL)}
	}
	return Bucket{Name: name, BaseURL: p.serviceURL + name + "/"}
}
