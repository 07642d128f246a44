package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var csvPrinter = message.NewPrinter(language.English)

// WriteCSV serialises a report result to CSV. Cells are emitted in column
// order; currency cells get grouped thousands, float cells two decimals.
func WriteCSV(w io.Writer, result Result) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col.Label
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(result.Columns))
	for _, row := range result.Rows {
		for i, col := range result.Columns {
			record[i] = formatCell(col, row)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatCell(col Column, row Row) string {
	value, ok := row[col.Fieldname]
	if !ok || value == nil {
		return ""
	}
	switch col.Fieldtype {
	case FieldtypeCurrency:
		return csvPrinter.Sprintf("%.2f", row.Float(col.Fieldname))
	case FieldtypeFloat:
		return fmt.Sprintf("%.2f", row.Float(col.Fieldname))
	case FieldtypeDate:
		switch v := value.(type) {
		case time.Time:
			return v.Format("2006-01-02")
		case string:
			// Cached rows round-trip through JSON, turning dates
			// into RFC3339 strings.
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t.Format("2006-01-02")
			}
			return v
		}
	case FieldtypeCheck:
		switch v := value.(type) {
		case bool:
			if v {
				return "1"
			}
			return "0"
		}
	}
	return fmt.Sprintf("%v", value)
}
