// Package ledger is the data-access boundary for the general ledger and
// stock ledger tables the report modules read from. It only answers
// "given filter criteria, return matching rows"; all aggregation happens
// in the report modules.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

// Entry is one general ledger row as fetched for reporting.
type Entry struct {
	ID                      int64     `json:"id"`
	PostingDate             time.Time `json:"posting_date"`
	Account                 string    `json:"account"`
	PartyType               string    `json:"party_type,omitempty"`
	Party                   string    `json:"party,omitempty"`
	VoucherType             string    `json:"voucher_type"`
	VoucherNo               string    `json:"voucher_no"`
	AgainstVoucherType      string    `json:"against_voucher_type,omitempty"`
	AgainstVoucher          string    `json:"against_voucher,omitempty"`
	CostCenter              string    `json:"cost_center,omitempty"`
	Project                 string    `json:"project,omitempty"`
	Debit                   float64   `json:"debit"`
	Credit                  float64   `json:"credit"`
	DebitAccountCurrency    float64   `json:"debit_in_account_currency"`
	CreditAccountCurrency   float64   `json:"credit_in_account_currency"`
	AccountCurrency         string    `json:"account_currency,omitempty"`
	IsOpening               bool      `json:"is_opening"`
	Remarks                 string    `json:"remarks,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
}

// Account is a chart-of-accounts node. Lft/Rgt hold the nested-set bounds
// used to expand group accounts to their leaf children.
type Account struct {
	Name        string
	Company     string
	IsGroup     bool
	AccountType string
	Currency    string
	Lft         int64
	Rgt         int64
}

// Receivable reports whether postings to the account represent
// outstanding customer balances.
func (a Account) Receivable() bool {
	return a.AccountType == "Receivable"
}

// OutstandingInvoice is a submitted sales invoice with a remaining
// balance, the aging computation's input.
type OutstandingInvoice struct {
	Name        string
	DueDate     time.Time
	Outstanding float64
	Territory   string
}

// EntryOrder selects the ORDER BY applied to ledger fetches. The order
// must match the grouping mode so grouped rows arrive contiguously.
type EntryOrder int

const (
	// OrderByPosting is posting_date, account, created_at.
	OrderByPosting EntryOrder = iota
	// OrderByVoucher is posting_date, voucher_type, voucher_no.
	OrderByVoucher
	// OrderByAccount is account, posting_date, created_at.
	OrderByAccount
)

// EntryQuery scopes a general ledger fetch.
type EntryQuery struct {
	Company          string
	FromDate         time.Time
	ToDate           time.Time
	Accounts         []string
	PartyType        string
	PartyTypeIn      []string
	Parties          []string
	VoucherNo        string
	AgainstVoucherNo string
	CostCenters      []string
	Projects         []string

	// BoundFromDate applies the lower posting-date bound. Account and
	// party scoped statements need every historical row to derive the
	// opening balance, so they leave it unset.
	BoundFromDate bool
	// IncludeCancelled keeps cancelled ledger rows in the result.
	IncludeCancelled bool

	Order EntryOrder
}

// ErrAccountNotFound reports a filter referencing a missing account.
var ErrAccountNotFound = errors.New("ledger: account not found")

// AccountError wraps ErrAccountNotFound with the offending name.
func AccountError(name string) error {
	return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
}
