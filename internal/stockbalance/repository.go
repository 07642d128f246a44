package stockbalance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed warehouse and stock ledger reads.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Warehouses returns the company's warehouses in nested-set order, so
// parents always precede their children.
func (r *Repository) Warehouses(ctx context.Context, company string, includeDisabled bool) ([]Warehouse, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("stockbalance: repository not initialised")
	}
	sql := `SELECT name, COALESCE(parent_warehouse, ''), is_group, disabled
FROM warehouses WHERE company = $1`
	if !includeDisabled {
		sql += ` AND NOT disabled`
	}
	sql += ` ORDER BY lft`
	rows, err := r.pool.Query(ctx, sql, company)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.Name, &w.Parent, &w.IsGroup, &w.Disabled); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Balances sums stock value movement per warehouse over non-cancelled
// stock ledger entries.
func (r *Repository) Balances(ctx context.Context, company string) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, `SELECT warehouse, COALESCE(SUM(stock_value_difference), 0)
FROM stock_ledger_entries
WHERE company = $1 AND docstatus < 2 AND NOT is_cancelled
GROUP BY warehouse`, company)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	balances := make(map[string]float64)
	for rows.Next() {
		var warehouse string
		var balance float64
		if err := rows.Scan(&warehouse, &balance); err != nil {
			return nil, err
		}
		balances[warehouse] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return balances, nil
}

// Territories maps each dispatch warehouse to the territory of its most
// recent submitted sales invoice, optionally scoped to one territory.
func (r *Repository) Territories(ctx context.Context, territory string) (map[string]string, error) {
	sql := `SELECT DISTINCT ON (set_warehouse) set_warehouse, territory
FROM sales_invoices
WHERE docstatus = 1 AND set_warehouse <> ''`
	args := []interface{}{}
	if territory != "" {
		sql += ` AND territory = $1`
		args = append(args, territory)
	}
	sql += ` ORDER BY set_warehouse, posting_date DESC`
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	territories := make(map[string]string)
	for rows.Next() {
		var warehouse, terr string
		if err := rows.Scan(&warehouse, &terr); err != nil {
			return nil, err
		}
		territories[warehouse] = terr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return territories, nil
}
