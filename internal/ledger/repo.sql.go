package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEntry reports an insert that collides with an existing
// ledger row.
var ErrDuplicateEntry = errors.New("ledger: duplicate entry")

// Repository provides PostgreSQL backed ledger reads.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListEntries returns ledger rows matching the query in grouping order.
func (r *Repository) ListEntries(ctx context.Context, q EntryQuery) ([]Entry, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("ledger: repository not initialised")
	}
	sql, args := buildEntrySQL(q)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var partyType, party, againstType, against, costCenter, project, currency, remarks *string
		if err := rows.Scan(&e.ID, &e.PostingDate, &e.Account, &partyType, &party,
			&e.VoucherType, &e.VoucherNo, &againstType, &against, &costCenter, &project,
			&e.Debit, &e.Credit, &e.DebitAccountCurrency, &e.CreditAccountCurrency,
			&currency, &e.IsOpening, &remarks, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.PartyType = deref(partyType)
		e.Party = deref(party)
		e.AgainstVoucherType = deref(againstType)
		e.AgainstVoucher = deref(against)
		e.CostCenter = deref(costCenter)
		e.Project = deref(project)
		e.AccountCurrency = deref(currency)
		e.Remarks = deref(remarks)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// AccountMap loads the chart of accounts for a company keyed by name.
func (r *Repository) AccountMap(ctx context.Context, company string) (map[string]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, company, is_group, account_type, currency, lft, rgt
FROM accounts WHERE company = $1`, company)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	accounts := make(map[string]Account)
	for rows.Next() {
		var a Account
		var accountType, currency *string
		if err := rows.Scan(&a.Name, &a.Company, &a.IsGroup, &accountType, &currency, &a.Lft, &a.Rgt); err != nil {
			return nil, err
		}
		a.AccountType = deref(accountType)
		a.Currency = deref(currency)
		accounts[a.Name] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ExpandAccounts resolves each named account to itself plus, for group
// accounts, every descendant inside its nested-set bounds. Unknown names
// return ErrAccountNotFound.
func (r *Repository) ExpandAccounts(ctx context.Context, company string, names []string) ([]string, error) {
	expanded := make([]string, 0, len(names))
	seen := make(map[string]struct{})
	for _, name := range names {
		var lft, rgt int64
		err := r.pool.QueryRow(ctx, `SELECT lft, rgt FROM accounts WHERE company = $1 AND name = $2`, company, name).Scan(&lft, &rgt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, AccountError(name)
			}
			return nil, err
		}
		rows, err := r.pool.Query(ctx, `SELECT name FROM accounts WHERE company = $1 AND lft >= $2 AND rgt <= $3`, company, lft, rgt)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var child string
			if err := rows.Scan(&child); err != nil {
				rows.Close()
				return nil, err
			}
			if _, dup := seen[child]; !dup {
				seen[child] = struct{}{}
				expanded = append(expanded, child)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return expanded, nil
}

// CompanyCurrency returns the company's default currency code.
func (r *Repository) CompanyCurrency(ctx context.Context, company string) (string, error) {
	var currency string
	err := r.pool.QueryRow(ctx, `SELECT default_currency FROM companies WHERE name = $1`, company).Scan(&currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errors.New("ledger: company not found: " + company)
	}
	return currency, err
}

// PartyExists checks a party reference used in report filters.
func (r *Repository) PartyExists(ctx context.Context, partyType, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM parties WHERE party_type = $1 AND name = $2)`, partyType, name).Scan(&exists)
	return exists, err
}

// OutstandingInvoices returns submitted sales invoices with a remaining
// balance posted on or before the as-of date.
func (r *Repository) OutstandingInvoices(ctx context.Context, company string, asOf time.Time) ([]OutstandingInvoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, due_date, outstanding_amount, territory
FROM sales_invoices
WHERE company = $1 AND docstatus = 1 AND outstanding_amount > 0 AND posting_date <= $2`, company, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []OutstandingInvoice
	for rows.Next() {
		var inv OutstandingInvoice
		var territory *string
		if err := rows.Scan(&inv.Name, &inv.DueDate, &inv.Outstanding, &territory); err != nil {
			return nil, err
		}
		inv.Territory = deref(territory)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

// InsertEntry writes one ledger row, used by the seed path. Unique
// violations surface as ErrDuplicateEntry so callers can tolerate
// reruns.
func (r *Repository) InsertEntry(ctx context.Context, company string, e Entry) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO gl_entries
(company, posting_date, account, party_type, party, voucher_type, voucher_no,
 against_voucher_type, against_voucher, cost_center, project,
 debit, credit, debit_in_account_currency, credit_in_account_currency,
 account_currency, is_opening, is_cancelled, remarks, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, FALSE, $18, NOW())`,
		company, e.PostingDate, e.Account, e.PartyType, e.Party, e.VoucherType, e.VoucherNo,
		e.AgainstVoucherType, e.AgainstVoucher, e.CostCenter, e.Project,
		e.Debit, e.Credit, e.DebitAccountCurrency, e.CreditAccountCurrency,
		e.AccountCurrency, e.IsOpening, e.Remarks)
	return mapInsertError(err)
}

// mapInsertError translates a unique violation into ErrDuplicateEntry.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEntry
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
