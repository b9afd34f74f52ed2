package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultShareExpiryDays is how long a share link stays valid unless the
// caller asks otherwise.
const DefaultShareExpiryDays = 14

var (
	// ErrInvalidBalance is returned when a plan's initial balance is not positive.
	ErrInvalidBalance = errors.New("initial balance must be greater than zero")

	// ErrEmptyBucketName is returned for a bucket with a blank name.
	ErrEmptyBucketName = errors.New("bucket name is required")
)

type Plan struct {
	ID               string
	InitialBalance   decimal.Decimal
	RemainingBalance decimal.Decimal
	Notes            string
	IsCommitted      bool
	IsArchived       bool
	CreatedAt        time.Time
	PlanDate         *time.Time
	ArchivedAt       *time.Time
	Accounts         []*PlanAccount
}

type PlanAccount struct {
	ID        string
	Account   Account
	Buckets   []*Bucket
	IsChecked bool
	Notes     string
}

type Bucket struct {
	ID              string
	Name            string
	Category        BucketCategory
	AllocatedAmount decimal.Decimal
}

type ShareLink struct {
	URL       string
	ExpiresAt time.Time
}

// Status derives the lifecycle state. Archived wins over committed.
func (p *Plan) Status() PlanStatus {
	switch {
	case p.IsArchived:
		return PlanArchived
	case p.IsCommitted:
		return PlanCommitted
	default:
		return PlanDraft
	}
}

func (p *Plan) IsDraft() bool { return p.Status() == PlanDraft }

// Allocated sums every bucket of every account on the plan.
func (p *Plan) Allocated() decimal.Decimal {
	total := decimal.Zero
	for _, pa := range p.Accounts {
		total = total.Add(pa.Allocated())
	}
	return total
}

// Remaining is the initial balance minus everything allocated. It goes
// negative when the plan is over-allocated.
func (p *Plan) Remaining() decimal.Decimal {
	return p.InitialBalance.Sub(p.Allocated())
}

func (p *Plan) OverAllocated() bool {
	return p.Remaining().IsNegative()
}

// FindAccount returns the plan account with the given ID, or nil.
func (p *Plan) FindAccount(planAccountID string) *PlanAccount {
	for _, pa := range p.Accounts {
		if pa.ID == planAccountID {
			return pa
		}
	}
	return nil
}

// CheckedCount returns how many plan accounts have been ticked off.
func (p *Plan) CheckedCount() int {
	n := 0
	for _, pa := range p.Accounts {
		if pa.IsChecked {
			n++
		}
	}
	return n
}

func (pa *PlanAccount) Allocated() decimal.Decimal {
	total := decimal.Zero
	for _, b := range pa.Buckets {
		total = total.Add(b.AllocatedAmount)
	}
	return total
}

// ValidateInitialBalance requires a strictly positive amount.
func ValidateInitialBalance(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidBalance
	}
	return nil
}

// ValidateBucketNames checks the buckets of one plan account. Names are
// compared case-sensitively after trimming.
func ValidateBucketNames(buckets []*Bucket) error {
	seen := make(map[string]bool, len(buckets))
	for _, b := range buckets {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return ErrEmptyBucketName
		}
		if seen[name] {
			return fmt.Errorf("Bucket names must be unique: %q", name)
		}
		seen[name] = true
	}
	return nil
}

// ParseAmount parses a user-entered money amount. A leading "$" and
// thousands separators are tolerated.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	neg := strings.HasPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "-")
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
