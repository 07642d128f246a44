package statement

import (
	"fmt"

	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

// columns builds the grid schema. Money columns are labelled with the
// company currency; the aging columns carry the revised day boundaries.
func columns(f Filters, currency string) []reports.Column {
	cols := []reports.Column{
		{Fieldname: "posting_date", Label: "Posting Date", Fieldtype: reports.FieldtypeDate, Width: 100},
		{Fieldname: "voucher_type", Label: "Voucher Type", Fieldtype: reports.FieldtypeData, Width: 120},
		{Fieldname: "voucher_no", Label: "Voucher No", Fieldtype: reports.FieldtypeDynamicLink, Options: "voucher_type", Width: 180},
		{Fieldname: "debit", Label: fmt.Sprintf("Debit (%s)", currency), Fieldtype: reports.FieldtypeCurrency, Width: 130},
		{Fieldname: "credit", Label: fmt.Sprintf("Credit (%s)", currency), Fieldtype: reports.FieldtypeCurrency, Width: 130},
		{Fieldname: "balance", Label: fmt.Sprintf("Balance (%s)", currency), Fieldtype: reports.FieldtypeCurrency, Width: 130},
		{Fieldname: "age_0_90", Label: "0 - 90", Fieldtype: reports.FieldtypeCurrency, Width: 100},
		{Fieldname: "age_91_120", Label: "91 - 120", Fieldtype: reports.FieldtypeCurrency, Width: 100},
		{Fieldname: "age_121_180", Label: "121 - 180", Fieldtype: reports.FieldtypeCurrency, Width: 100},
		{Fieldname: "age_over_180", Label: "Over 180", Fieldtype: reports.FieldtypeCurrency, Width: 100},
	}
	if f.ShowRemarks {
		cols = append(cols, reports.Column{
			Fieldname: "remarks", Label: "Remarks", Fieldtype: reports.FieldtypeData, Width: 400,
		})
	}
	return cols
}
