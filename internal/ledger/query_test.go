package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildEntrySQLCompanyOnly(t *testing.T) {
	sql, args := buildEntrySQL(EntryQuery{Company: "Bioprime"})

	assert.Contains(t, sql, "WHERE company = $1")
	assert.Contains(t, sql, "AND NOT is_cancelled")
	assert.NotContains(t, sql, "posting_date >=")
	assert.Contains(t, sql, "ORDER BY posting_date, account, created_at")
	require.Len(t, args, 1)
	assert.Equal(t, "Bioprime", args[0])
}

func TestBuildEntrySQLFullFilterSet(t *testing.T) {
	q := EntryQuery{
		Company:          "Bioprime",
		FromDate:         date("2025-04-01"),
		ToDate:           date("2026-03-31"),
		Accounts:         []string{"Debtors - BP"},
		PartyType:        "Customer",
		Parties:          []string{"Acme Agro"},
		VoucherNo:        "SINV-0042",
		AgainstVoucherNo: "SO-0007",
		CostCenters:      []string{"Main - BP"},
		Projects:         []string{"Kharif"},
		BoundFromDate:    true,
		Order:            OrderByVoucher,
	}
	sql, args := buildEntrySQL(q)

	assert.Contains(t, sql, "account = ANY($2)")
	assert.Contains(t, sql, "party_type = $3")
	assert.Contains(t, sql, "party = ANY($4)")
	assert.Contains(t, sql, "voucher_no = $5")
	assert.Contains(t, sql, "against_voucher = $6")
	assert.Contains(t, sql, "cost_center = ANY($7)")
	assert.Contains(t, sql, "project = ANY($8)")
	assert.Contains(t, sql, "(posting_date >= $9 OR is_opening)")
	assert.Contains(t, sql, "(posting_date <= $10 OR is_opening)")
	assert.Contains(t, sql, "ORDER BY posting_date, voucher_type, voucher_no")
	require.Len(t, args, 10)
	assert.Equal(t, date("2025-04-01"), args[8])
	assert.Equal(t, date("2026-03-31"), args[9])
}

func TestBuildEntrySQLUnboundedFromDate(t *testing.T) {
	q := EntryQuery{
		Company:  "Bioprime",
		FromDate: date("2025-04-01"),
		ToDate:   date("2026-03-31"),
		Accounts: []string{"Debtors - BP"},
		Order:    OrderByAccount,
	}
	sql, args := buildEntrySQL(q)

	// Opening derivation needs rows before the window, so the lower
	// bound is skipped unless explicitly requested.
	assert.NotContains(t, sql, "posting_date >=")
	assert.Contains(t, sql, "(posting_date <= $3 OR is_opening)")
	assert.Contains(t, sql, "ORDER BY account, posting_date, created_at")
	assert.Len(t, args, 3)
}

func TestBuildEntrySQLPartyTypeSet(t *testing.T) {
	sql, args := buildEntrySQL(EntryQuery{
		Company:     "Bioprime",
		PartyTypeIn: []string{"Customer", "Supplier"},
	})
	assert.Contains(t, sql, "party_type = ANY($2)")
	assert.Len(t, args, 2)

	// An explicit party type takes precedence over the set.
	sql, _ = buildEntrySQL(EntryQuery{
		Company:     "Bioprime",
		PartyType:   "Customer",
		PartyTypeIn: []string{"Customer", "Supplier"},
	})
	assert.Contains(t, sql, "party_type = $2")
	assert.NotContains(t, sql, "ANY($2)")
}

func TestBuildEntrySQLIncludeCancelled(t *testing.T) {
	sql, _ := buildEntrySQL(EntryQuery{Company: "Bioprime", IncludeCancelled: true})
	assert.NotContains(t, sql, "is_cancelled")
}

func TestAccountError(t *testing.T) {
	err := AccountError("Ghost - BP")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.True(t, strings.Contains(err.Error(), "Ghost - BP"))
}
