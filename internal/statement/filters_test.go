package statement

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IBSLPUNE/Bioprime/internal/ledger"
)

func TestParseFilters(t *testing.T) {
	query := url.Values{}
	query.Set("company", "Bioprime")
	query.Set("from_date", "2025-04-01")
	query.Set("to_date", "2026-03-31")
	query.Add("account", "Debtors - BP")
	query.Add("account", "Advances - BP")
	query.Set("party_type", "Customer")
	query.Add("party", "Acme Agro")
	query.Set("categorize_by", "voucher-consolidated")
	query.Set("show_opening_entries", "1")
	query.Set("show_remarks", "true")

	f := ParseFilters(query)

	assert.Equal(t, "Bioprime", f.Company)
	assert.Equal(t, day("2025-04-01"), f.FromDate)
	assert.Equal(t, day("2026-03-31"), f.ToDate)
	assert.Equal(t, []string{"Debtors - BP", "Advances - BP"}, f.Accounts)
	assert.Equal(t, []string{"Acme Agro"}, f.Parties)
	assert.Equal(t, ByVoucherConsolidated, f.CategorizeBy)
	assert.True(t, f.ShowOpeningEntries)
	assert.True(t, f.ShowRemarks)
	assert.False(t, f.ShowCancelledEntries)
}

func TestParseFiltersBadDate(t *testing.T) {
	query := url.Values{}
	query.Set("from_date", "01-04-2025")
	f := ParseFilters(query)
	assert.True(t, f.FromDate.IsZero())
}

func TestEntryQueryDateBound(t *testing.T) {
	f := statementFilters("")
	q := f.entryQuery(nil)
	assert.True(t, q.BoundFromDate, "unscoped statements bound the window")

	f.Parties = []string{"Acme Agro"}
	assert.False(t, f.entryQuery(nil).BoundFromDate)

	f = statementFilters(ByAccount)
	assert.False(t, f.entryQuery(nil).BoundFromDate)

	f = statementFilters("")
	assert.False(t, f.entryQuery([]string{"Debtors - BP"}).BoundFromDate)
}

func TestEntryQueryPartyModeDefaultsPartyTypes(t *testing.T) {
	f := statementFilters(ByParty)
	q := f.entryQuery(nil)
	assert.Equal(t, []string{"Customer", "Supplier"}, q.PartyTypeIn)

	f.PartyType = "Customer"
	assert.Empty(t, f.entryQuery(nil).PartyTypeIn)
}

func TestEntryQueryOrderFollowsMode(t *testing.T) {
	assert.Equal(t, ledger.OrderByPosting, statementFilters("").entryQuery(nil).Order)
	assert.Equal(t, ledger.OrderByVoucher, statementFilters(ByVoucher).entryQuery(nil).Order)
	assert.Equal(t, ledger.OrderByAccount, statementFilters(ByAccount).entryQuery(nil).Order)
	assert.Equal(t, ledger.OrderByPosting, statementFilters(ByVoucherConsolidated).entryQuery(nil).Order)
}
