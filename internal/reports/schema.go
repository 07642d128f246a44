// Package reports hosts the report engine: the column/row grid contract,
// the plugin registry and the shared result cache used by every report
// module.
package reports

// Fieldtype enumerates grid column types understood by the UI.
type Fieldtype string

const (
	FieldtypeData        Fieldtype = "Data"
	FieldtypeDate        Fieldtype = "Date"
	FieldtypeLink        Fieldtype = "Link"
	FieldtypeDynamicLink Fieldtype = "Dynamic Link"
	FieldtypeCurrency    Fieldtype = "Currency"
	FieldtypeFloat       Fieldtype = "Float"
	FieldtypeCheck       Fieldtype = "Check"
)

// Column describes one column of a report grid.
type Column struct {
	Fieldname string    `json:"fieldname"`
	Label     string    `json:"label"`
	Fieldtype Fieldtype `json:"fieldtype"`
	Options   string    `json:"options,omitempty"`
	Width     int       `json:"width"`
}

// Row is a single report row keyed by column fieldname. Summary rows carry
// only the fields they aggregate; separator rows are empty.
type Row map[string]any

// Float reads a numeric cell, tolerating absent and integer-typed values.
func (r Row) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// String reads a text cell.
func (r Row) String(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// Result is the rendering contract of every report: a column schema plus
// the row list to display.
type Result struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}
