package statement

import (
	"github.com/IBSLPUNE/Bioprime/internal/ledger"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

// Summary row labels, quoted so the grid renders them distinctly from
// account links.
const (
	labelOpening = "'Opening'"
	labelTotal   = "'Total'"
	labelClosing = "'Closing (Opening + Total)'"
)

// statementEntry is a ledger row with its receivable aging attached.
type statementEntry struct {
	ledger.Entry
	Age       Buckets
	Territory string
}

// merge folds another row into a consolidated voucher line.
func (s *statementEntry) merge(o statementEntry) {
	s.Debit += o.Debit
	s.Credit += o.Credit
	s.DebitAccountCurrency += o.DebitAccountCurrency
	s.CreditAccountCurrency += o.CreditAccountCurrency
	s.Age.add(o.Age)
	if s.AgainstVoucher != "" && o.AgainstVoucher != "" && s.AgainstVoucher != o.AgainstVoucher {
		s.AgainstVoucher += ", " + o.AgainstVoucher
	}
}

type totals struct {
	Debit    float64
	Credit   float64
	DebitAC  float64
	CreditAC float64
	Age      Buckets
}

func (t *totals) add(e statementEntry) {
	t.Debit += e.Debit
	t.Credit += e.Credit
	t.DebitAC += e.DebitAccountCurrency
	t.CreditAC += e.CreditAccountCurrency
	t.Age.add(e.Age)
}

func (t totals) row(label string) reports.Row {
	r := reports.Row{
		"account":                    label,
		"debit":                      t.Debit,
		"credit":                     t.Credit,
		"debit_in_account_currency":  t.DebitAC,
		"credit_in_account_currency": t.CreditAC,
	}
	putBuckets(r, t.Age)
	return r
}

// groupTotals is the opening/period/closing triple kept per section and
// for the grand totals. Closing always receives what opening or total
// receives, so closing = opening + total holds by construction.
type groupTotals struct {
	opening totals
	total   totals
	closing totals
}

type section struct {
	totals  groupTotals
	entries []statementEntry
}

type consolKey struct {
	VoucherType string
	VoucherNo   string
	Account     string
	PartyType   string
	Party       string
}

// build turns ordered ledger entries into the report's row sequence:
// grand opening, then per group a separator, opening, entries, total and
// closing, then the grand total and closing. Consolidated mode emits the
// merged voucher lines flat with grand totals only.
func build(f Filters, entries []ledger.Entry, aged map[string]agedInvoice) []reports.Row {
	consolidated := f.CategorizeBy == ByVoucherConsolidated

	groups := make(map[string]*section)
	var order []string
	merged := make(map[consolKey]*statementEntry)
	var mergedOrder []consolKey
	var grand groupTotals

	for _, e := range entries {
		se := statementEntry{Entry: e}
		if e.VoucherType == "Sales Invoice" && e.PartyType == "Customer" {
			if info, ok := aged[e.VoucherNo]; ok {
				se.Age = info.Buckets
				se.Territory = info.Territory
			}
		}

		opening := e.PostingDate.Before(f.FromDate) || (e.IsOpening && !f.ShowOpeningEntries)

		var g *section
		if !consolidated {
			key := f.CategorizeBy.groupKey(e)
			g = groups[key]
			if g == nil {
				g = &section{}
				groups[key] = g
				order = append(order, key)
			}
		}

		if opening {
			if g != nil {
				g.totals.opening.add(se)
				g.totals.closing.add(se)
			}
			grand.opening.add(se)
			grand.closing.add(se)
			continue
		}

		if consolidated {
			k := consolKey{e.VoucherType, e.VoucherNo, e.Account, e.PartyType, e.Party}
			if m, ok := merged[k]; ok {
				m.merge(se)
			} else {
				line := se
				merged[k] = &line
				mergedOrder = append(mergedOrder, k)
			}
			continue
		}

		g.totals.total.add(se)
		g.totals.closing.add(se)
		grand.total.add(se)
		grand.closing.add(se)
		g.entries = append(g.entries, se)
	}

	for _, k := range mergedOrder {
		grand.total.add(*merged[k])
		grand.closing.add(*merged[k])
	}

	rows := []reports.Row{grand.opening.row(labelOpening)}

	if consolidated {
		for _, k := range mergedOrder {
			rows = append(rows, entryRow(*merged[k], f.ShowRemarks))
		}
	} else {
		for _, key := range order {
			g := groups[key]
			if len(g.entries) == 0 {
				continue
			}
			rows = append(rows, reports.Row{})
			if f.CategorizeBy != ByVoucher {
				rows = append(rows, g.totals.opening.row(labelOpening))
			}
			for _, se := range g.entries {
				rows = append(rows, entryRow(se, f.ShowRemarks))
			}
			rows = append(rows, g.totals.total.row(labelTotal))
			if f.CategorizeBy != ByVoucher {
				rows = append(rows, g.totals.closing.row(labelClosing))
			}
		}
		rows = append(rows, reports.Row{})
	}

	rows = append(rows, grand.total.row(labelTotal), grand.closing.row(labelClosing))

	applyRunningBalance(rows)
	return rows
}

func entryRow(e statementEntry, showRemarks bool) reports.Row {
	r := reports.Row{
		"posting_date":               e.PostingDate,
		"account":                    e.Account,
		"voucher_type":               e.VoucherType,
		"voucher_no":                 e.VoucherNo,
		"debit":                      e.Debit,
		"credit":                     e.Credit,
		"debit_in_account_currency":  e.DebitAccountCurrency,
		"credit_in_account_currency": e.CreditAccountCurrency,
	}
	if e.PartyType != "" {
		r["party_type"] = e.PartyType
		r["party"] = e.Party
	}
	if e.AgainstVoucher != "" {
		r["against_voucher_type"] = e.AgainstVoucherType
		r["against_voucher"] = e.AgainstVoucher
	}
	if e.CostCenter != "" {
		r["cost_center"] = e.CostCenter
	}
	if e.Project != "" {
		r["project"] = e.Project
	}
	if e.AccountCurrency != "" {
		r["account_currency"] = e.AccountCurrency
	}
	if e.Territory != "" {
		r["territory"] = e.Territory
	}
	if showRemarks && e.Remarks != "" {
		r["remarks"] = e.Remarks
	}
	putBuckets(r, e.Age)
	return r
}

func putBuckets(r reports.Row, b Buckets) {
	r["age_0_90"] = b.Upto90
	r["age_91_120"] = b.Upto120
	r["age_121_180"] = b.Upto180
	r["age_over_180"] = b.Over180
}

// applyRunningBalance stamps the debit-minus-credit running balance on
// every row. Separator and summary rows carry no posting date and reset
// the accumulator, so each section's entries run from its opening figure
// and each summary row shows its own net.
func applyRunningBalance(rows []reports.Row) {
	balance := 0.0
	for _, r := range rows {
		if _, ok := r["posting_date"]; !ok {
			balance = 0
		}
		balance += r.Float("debit") - r.Float("credit")
		r["balance"] = balance
	}
}
