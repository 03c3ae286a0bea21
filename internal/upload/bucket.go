package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoBucket is returned when the credentials cannot see any bucket.
	ErrNoBucket = errors.New("no bucket visible to the configured credentials")

	// ErrMultipleBuckets is returned when discovery is ambiguous.
	ErrMultipleBuckets = errors.New("expected exactly one bucket")
)

// DiscoverBucket resolves the single bucket all uploads of a run target.
// Zero or more than one visible bucket is a configuration error.
func DiscoverBucket(ctx context.Context, p Provider) (Bucket, error) {
	buckets, err := p.Buckets(ctx)
	if err != nil {
		return Bucket{}, fmt.Errorf("%s: failed to list buckets: %w", p.Name(), err)
	}

	switch len(buckets) {
	case 0:
		return Bucket{}, fmt.Errorf("%s: %w", p.Name(), ErrNoBucket)
	case 1:
		return buckets[0], nil
	default:
		names := make([]string, len(buckets))
		for i, b := range buckets {
			names[i] = b.Name
		}
		return Bucket{}, fmt.Errorf("%s: %w, found %d (%s); set the bucket option to pick one",
			p.Name(), ErrMultipleBuckets, len(buckets), strings.Join(names, ", "))
	}
}

// withTrailingSlash makes sure base URLs can be concatenated with keys.
func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

func withoutTrailingSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}
