package domain

import (
	"fmt"
	"strings"
)

type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanCommitted PlanStatus = "committed"
	PlanArchived  PlanStatus = "archived"
)

// BucketCategory values are the wire enum of the API.
type BucketCategory string

const (
	CategoryNeed             BucketCategory = "NEED"
	CategoryWant             BucketCategory = "WANT"
	CategorySavingsInvesting BucketCategory = "SAVINGS_INVESTING"
	CategoryOther            BucketCategory = "OTHER"
)

var categoryLabels = map[BucketCategory]string{
	CategoryNeed:             "need",
	CategoryWant:             "want",
	CategorySavingsInvesting: "savings/investing",
	CategoryOther:            "other",
}

// Label returns the human form of the category ("savings/investing").
func (c BucketCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return strings.ToLower(string(c))
}

// Valid reports whether c is one of the four known categories.
func (c BucketCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseBucketCategory accepts either the wire value or the label, in any case.
// "savings" and "investing" are accepted as shorthands.
func ParseBucketCategory(s string) (BucketCategory, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "need", "needs":
		return CategoryNeed, nil
	case "want", "wants":
		return CategoryWant, nil
	case "savings/investing", "savings_investing", "savings", "investing":
		return CategorySavingsInvesting, nil
	case "other":
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unknown bucket category %q (want need, want, savings/investing or other)", s)
}
