package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
)

// Convert validates file and turns it into domain buckets ready for
// changeAccountConfiguration.
func Convert(file *BucketFile) ([]*domain.Bucket, error) {
	if errs := ValidateBucketFile(file); len(errs) > 0 {
		return nil, fmt.Errorf("invalid bucket file: %w", errors.Join(errs...))
	}

	buckets := make([]*domain.Bucket, 0, len(file.Buckets))
	for _, b := range file.Buckets {
		category, _ := domain.ParseBucketCategory(b.Category)
		amount, _ := domain.ParseAmount(b.Amount)
		buckets = append(buckets, &domain.Bucket{
			ID:              b.ID,
			Name:            strings.TrimSpace(b.Name),
			Category:        category,
			AllocatedAmount: amount,
		})
	}
	return buckets, nil
}

// ParseBucketFlag parses the `name:category:amount` form of --bucket.
// The name may itself contain colons; the last two fields are taken as
// category and amount.
func ParseBucketFlag(s string) (*domain.Bucket, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return nil, fmt.Errorf("bucket %q: want name:category:amount", s)
	}
	n := len(parts)
	row := BucketImport{
		Name:     strings.Join(parts[:n-2], ":"),
		Category: parts[n-2],
		Amount:   parts[n-1],
	}
	buckets, err := Convert(&BucketFile{Buckets: []BucketImport{row}})
	if err != nil {
		return nil, fmt.Errorf("bucket %q: %w", s, err)
	}
	return buckets[0], nil
}
