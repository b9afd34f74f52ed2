package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPlanStatus(t *testing.T) {
	assert.Equal(t, PlanDraft, (&Plan{}).Status())
	assert.Equal(t, PlanCommitted, (&Plan{IsCommitted: true}).Status())
	assert.Equal(t, PlanArchived, (&Plan{IsCommitted: true, IsArchived: true}).Status())
	assert.True(t, (&Plan{}).IsDraft())
}

func TestRemaining_ExactAllocationIsZero(t *testing.T) {
	p := &Plan{
		InitialBalance: dec("1000"),
		Accounts: []*PlanAccount{{
			ID:      "pa1",
			Buckets: []*Bucket{{Name: "Rent", AllocatedAmount: dec("1000")}},
		}},
	}
	assert.True(t, p.Remaining().IsZero())
	assert.False(t, p.OverAllocated())
}

func TestRemaining_OverAllocationIsFlaggedNotRejected(t *testing.T) {
	p := &Plan{
		InitialBalance: dec("1000"),
		Accounts: []*PlanAccount{{
			ID: "pa1",
			Buckets: []*Bucket{
				{Name: "Rent", AllocatedAmount: dec("1000")},
				{Name: "Coffee", AllocatedAmount: dec("1")},
			},
		}},
	}
	assert.True(t, p.Remaining().Equal(dec("-1")))
	assert.True(t, p.OverAllocated())
	assert.NoError(t, ValidateBucketNames(p.Accounts[0].Buckets))
}

func TestAllocated_SumsAcrossAccounts(t *testing.T) {
	p := &Plan{
		InitialBalance: dec("500"),
		Accounts: []*PlanAccount{
			{ID: "a", Buckets: []*Bucket{{Name: "x", AllocatedAmount: dec("100.25")}}},
			{ID: "b", Buckets: []*Bucket{{Name: "x", AllocatedAmount: dec("50.50")}}},
		},
	}
	assert.True(t, p.Allocated().Equal(dec("150.75")))
	assert.NotNil(t, p.FindAccount("b"))
	assert.Nil(t, p.FindAccount("zzz"))
}

func TestValidateBucketNames_DuplicateIsRejected(t *testing.T) {
	err := ValidateBucketNames([]*Bucket{{Name: "Rent"}, {Name: "Food"}, {Name: "Rent"}})
	require.Error(t, err)
	assert.Equal(t, `Bucket names must be unique: "Rent"`, err.Error())
}

func TestValidateBucketNames_CaseSensitive(t *testing.T) {
	assert.NoError(t, ValidateBucketNames([]*Bucket{{Name: "Rent"}, {Name: "rent"}}))
}

func TestValidateBucketNames_Empty(t *testing.T) {
	assert.ErrorIs(t, ValidateBucketNames([]*Bucket{{Name: "  "}}), ErrEmptyBucketName)
}

func TestValidateInitialBalance(t *testing.T) {
	assert.NoError(t, ValidateInitialBalance(dec("0.01")))
	assert.ErrorIs(t, ValidateInitialBalance(decimal.Zero), ErrInvalidBalance)
	assert.ErrorIs(t, ValidateInitialBalance(dec("-5")), ErrInvalidBalance)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"1000":      "1000",
		"$1,000.50": "1000.5",
		"-$20":      "-20",
		" 12.3 ":    "12.3",
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(dec(want)), "%s -> %s", in, got)
	}
	_, err := ParseAmount("abc")
	assert.Error(t, err)
	_, err = ParseAmount("")
	assert.Error(t, err)
}

func TestParseBucketCategory(t *testing.T) {
	c, err := ParseBucketCategory("Savings/Investing")
	require.NoError(t, err)
	assert.Equal(t, CategorySavingsInvesting, c)
	assert.Equal(t, "savings/investing", c.Label())

	c, err = ParseBucketCategory("NEED")
	require.NoError(t, err)
	assert.Equal(t, CategoryNeed, c)

	_, err = ParseBucketCategory("luxury")
	assert.Error(t, err)
}
