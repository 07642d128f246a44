package statement

import (
	"time"

	"github.com/IBSLPUNE/Bioprime/internal/ledger"
)

// Buckets splits an outstanding balance by days past due. The whole
// amount lands in exactly one bucket.
type Buckets struct {
	Upto90  float64
	Upto120 float64
	Upto180 float64
	Over180 float64
}

func (b *Buckets) add(o Buckets) {
	b.Upto90 += o.Upto90
	b.Upto120 += o.Upto120
	b.Upto180 += o.Upto180
	b.Over180 += o.Over180
}

// agedInvoice carries an invoice's bucket split plus the territory its
// sale was booked under.
type agedInvoice struct {
	Buckets
	Territory string
}

// ageReceivables buckets each outstanding invoice by days between its
// due date and the as-of date. Invoices not yet due count as current
// (days past due below zero stays in the first bucket).
func ageReceivables(invoices []ledger.OutstandingInvoice, asOf time.Time) map[string]agedInvoice {
	aged := make(map[string]agedInvoice, len(invoices))
	for _, inv := range invoices {
		days := daysBetween(inv.DueDate, asOf)
		var b Buckets
		switch {
		case days <= 90:
			b.Upto90 = inv.Outstanding
		case days <= 120:
			b.Upto120 = inv.Outstanding
		case days <= 180:
			b.Upto180 = inv.Outstanding
		default:
			b.Over180 = inv.Outstanding
		}
		aged[inv.Name] = agedInvoice{Buckets: b, Territory: inv.Territory}
	}
	return aged
}

// daysBetween counts whole calendar days from a to b, negative when b is
// earlier. Both operands are date-typed values at midnight.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
