package stockbalance

import "github.com/IBSLPUNE/Bioprime/internal/reports"

func columns(f Filters) []reports.Column {
	cols := []reports.Column{
		{Fieldname: "name", Label: "Warehouse", Fieldtype: reports.FieldtypeLink, Options: "Warehouse", Width: 200},
		{Fieldname: "stock_balance", Label: "Stock Balance", Fieldtype: reports.FieldtypeFloat, Width: 150},
		{Fieldname: "territory", Label: "Territory", Fieldtype: reports.FieldtypeLink, Options: "Territory", Width: 150},
	}
	if f.ShowDisabled {
		cols = append(cols, reports.Column{
			Fieldname: "disabled", Label: "Warehouse Disabled?", Fieldtype: reports.FieldtypeCheck, Width: 200,
		})
	}
	return cols
}
