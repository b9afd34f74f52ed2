package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/moneyplan/internal/domain"
)

// ValidateBucketFile checks every row of the file and returns all problems
// found, not just the first.
func ValidateBucketFile(file *BucketFile) []error {
	var errs []error
	if len(file.Buckets) == 0 {
		return []error{fmt.Errorf("buckets: at least one bucket is required")}
	}

	seen := make(map[string]int, len(file.Buckets))
	for i, b := range file.Buckets {
		field := fmt.Sprintf("buckets[%d]", i)
		name := strings.TrimSpace(b.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", field))
		} else if first, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("%s.name %q duplicates buckets[%d]", field, name, first))
		} else {
			seen[name] = i
		}

		if _, err := domain.ParseBucketCategory(b.Category); err != nil {
			errs = append(errs, fmt.Errorf("%s.category: %w", field, err))
		}

		amount, err := domain.ParseAmount(b.Amount)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s.amount: %w", field, err))
		case amount.IsNegative():
			errs = append(errs, fmt.Errorf("%s.amount must not be negative", field))
		}
	}
	return errs
}
