package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	result := Result{
		Columns: []Column{
			{Fieldname: "posting_date", Label: "Posting Date", Fieldtype: FieldtypeDate},
			{Fieldname: "voucher_no", Label: "Voucher No", Fieldtype: FieldtypeDynamicLink},
			{Fieldname: "debit", Label: "Debit (INR)", Fieldtype: FieldtypeCurrency},
			{Fieldname: "qty", Label: "Qty", Fieldtype: FieldtypeFloat},
			{Fieldname: "disabled", Label: "Disabled?", Fieldtype: FieldtypeCheck},
		},
		Rows: []Row{
			{
				"posting_date": time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				"voucher_no":   "SINV-1",
				"debit":        1234567.5,
				"qty":          3.25,
				"disabled":     false,
			},
			{},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Posting Date", "Voucher No", "Debit (INR)", "Qty", "Disabled?"}, records[0])
	assert.Equal(t, []string{"2025-05-01", "SINV-1", "1,234,567.50", "3.25", "0"}, records[1])
	// Empty rows render as empty cells, not zeros.
	assert.Equal(t, []string{"", "", "", "", ""}, records[2])
}

func TestWriteCSVDateSurvivesJSONRoundTrip(t *testing.T) {
	result := Result{
		Columns: []Column{{Fieldname: "posting_date", Label: "Posting Date", Fieldtype: FieldtypeDate}},
		Rows:    []Row{{"posting_date": "2025-05-01T00:00:00Z"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", records[1][0])
}
