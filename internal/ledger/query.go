package ledger

import "strconv"

// buildEntrySQL renders the WHERE clause and positional args for an
// EntryQuery. Kept separate from the repository so the condition logic is
// testable without a database.
func buildEntrySQL(q EntryQuery) (string, []interface{}) {
	sql := `SELECT id, posting_date, account, party_type, party, voucher_type, voucher_no,
against_voucher_type, against_voucher, cost_center, project,
debit, credit, debit_in_account_currency, credit_in_account_currency,
account_currency, is_opening, remarks, created_at
FROM gl_entries WHERE company = $1`
	args := []interface{}{q.Company}
	n := 1

	next := func() string {
		n++
		return "$" + strconv.Itoa(n)
	}

	if len(q.Accounts) > 0 {
		sql += ` AND account = ANY(` + next() + `)`
		args = append(args, q.Accounts)
	}
	if q.PartyType != "" {
		sql += ` AND party_type = ` + next()
		args = append(args, q.PartyType)
	} else if len(q.PartyTypeIn) > 0 {
		sql += ` AND party_type = ANY(` + next() + `)`
		args = append(args, q.PartyTypeIn)
	}
	if len(q.Parties) > 0 {
		sql += ` AND party = ANY(` + next() + `)`
		args = append(args, q.Parties)
	}
	if q.VoucherNo != "" {
		sql += ` AND voucher_no = ` + next()
		args = append(args, q.VoucherNo)
	}
	if q.AgainstVoucherNo != "" {
		sql += ` AND against_voucher = ` + next()
		args = append(args, q.AgainstVoucherNo)
	}
	if len(q.CostCenters) > 0 {
		sql += ` AND cost_center = ANY(` + next() + `)`
		args = append(args, q.CostCenters)
	}
	if len(q.Projects) > 0 {
		sql += ` AND project = ANY(` + next() + `)`
		args = append(args, q.Projects)
	}

	// Opening rows stay inside the window regardless of posting date so
	// the report can fold them into the opening balance.
	if q.BoundFromDate && !q.FromDate.IsZero() {
		sql += ` AND (posting_date >= ` + next() + ` OR is_opening)`
		args = append(args, q.FromDate)
	}
	if !q.ToDate.IsZero() {
		sql += ` AND (posting_date <= ` + next() + ` OR is_opening)`
		args = append(args, q.ToDate)
	}

	if !q.IncludeCancelled {
		sql += ` AND NOT is_cancelled`
	}

	switch q.Order {
	case OrderByVoucher:
		sql += ` ORDER BY posting_date, voucher_type, voucher_no`
	case OrderByAccount:
		sql += ` ORDER BY account, posting_date, created_at`
	default:
		sql += ` ORDER BY posting_date, account, created_at`
	}
	return sql, args
}
