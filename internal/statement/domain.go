// Package statement implements the customer account statement report:
// a general ledger statement grouped by party, voucher or account, with
// receivable aging buckets attached to customer invoice rows.
package statement

import (
	"net/url"
	"time"

	"github.com/IBSLPUNE/Bioprime/internal/ledger"
)

// CategorizeBy selects how ledger rows are grouped into sections.
type CategorizeBy string

const (
	ByParty               CategorizeBy = "party"
	ByVoucher             CategorizeBy = "voucher"
	ByVoucherConsolidated CategorizeBy = "voucher-consolidated"
	ByAccount             CategorizeBy = "account"
)

// groupKey returns the entry field the mode groups by. Voucher and the
// unset mode both key on voucher number; consolidated keys on account
// because its entries are merged, not sectioned.
func (c CategorizeBy) groupKey(e ledger.Entry) string {
	switch c {
	case ByParty:
		return e.Party
	case ByAccount, ByVoucherConsolidated:
		return e.Account
	default:
		return e.VoucherNo
	}
}

func (c CategorizeBy) entryOrder() ledger.EntryOrder {
	switch c {
	case ByVoucher:
		return ledger.OrderByVoucher
	case ByAccount:
		return ledger.OrderByAccount
	default:
		return ledger.OrderByPosting
	}
}

// Filters are the statement report's parsed query parameters.
type Filters struct {
	Company          string       `validate:"required"`
	FromDate         time.Time    `validate:"required"`
	ToDate           time.Time    `validate:"required"`
	Accounts         []string     `validate:"dive,required"`
	PartyType        string       `validate:"omitempty,oneof=Customer Supplier"`
	Parties          []string     `validate:"dive,required"`
	VoucherNo        string
	AgainstVoucherNo string
	CategorizeBy     CategorizeBy `validate:"omitempty,oneof=party voucher voucher-consolidated account"`
	CostCenters      []string
	Projects         []string

	ShowOpeningEntries   bool
	ShowCancelledEntries bool
	ShowRemarks          bool
}

const dateLayout = "2006-01-02"

// ParseFilters reads the report's query parameters. Multi-valued filters
// use repeated keys (?account=A&account=B). Date parse failures surface
// as zero values and fail required-field validation.
func ParseFilters(query url.Values) Filters {
	f := Filters{
		Company:          query.Get("company"),
		Accounts:         compact(query["account"]),
		PartyType:        query.Get("party_type"),
		Parties:          compact(query["party"]),
		VoucherNo:        query.Get("voucher_no"),
		AgainstVoucherNo: query.Get("against_voucher_no"),
		CategorizeBy:     CategorizeBy(query.Get("categorize_by")),
		CostCenters:      compact(query["cost_center"]),
		Projects:         compact(query["project"]),

		ShowOpeningEntries:   parseBool(query.Get("show_opening_entries")),
		ShowCancelledEntries: parseBool(query.Get("show_cancelled_entries")),
		ShowRemarks:          parseBool(query.Get("show_remarks")),
	}
	if t, err := time.Parse(dateLayout, query.Get("from_date")); err == nil {
		f.FromDate = t
	}
	if t, err := time.Parse(dateLayout, query.Get("to_date")); err == nil {
		f.ToDate = t
	}
	return f
}

// entryQuery translates validated filters into a ledger fetch. The lower
// posting-date bound only applies when no account or party scope is in
// play; scoped statements need all prior rows to derive the opening
// balance.
func (f Filters) entryQuery(accounts []string) ledger.EntryQuery {
	q := ledger.EntryQuery{
		Company:          f.Company,
		FromDate:         f.FromDate,
		ToDate:           f.ToDate,
		Accounts:         accounts,
		PartyType:        f.PartyType,
		Parties:          f.Parties,
		VoucherNo:        f.VoucherNo,
		AgainstVoucherNo: f.AgainstVoucherNo,
		CostCenters:      f.CostCenters,
		Projects:         f.Projects,
		IncludeCancelled: f.ShowCancelledEntries,
		Order:            f.CategorizeBy.entryOrder(),
	}
	scoped := len(accounts) > 0 || len(f.Parties) > 0 ||
		f.CategorizeBy == ByAccount || f.CategorizeBy == ByParty
	q.BoundFromDate = !scoped

	if f.CategorizeBy == ByParty && f.PartyType == "" {
		q.PartyTypeIn = []string{"Customer", "Supplier"}
	}
	return q
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseBool(v string) bool {
	return v == "1" || v == "true" || v == "on"
}
