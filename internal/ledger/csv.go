package ledger

import (
	"encoding/csv"
	"io"
)

// csvColumns is the fixed external export order named in the pipeline's
// output contract. Export is a thin convenience wrapper: this package does
// not own persistence or file-upload concerns, only the in-memory shape.
var csvColumns = []string{"Date", "Amount", "Category", "Title", "Note", "Account"}

// WriteCSV writes transactions in the fixed column order expected by
// downstream import tools. Title is populated from Description.
func WriteCSV(w io.Writer, txns []Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, t := range txns {
		row := []string{
			t.Date.Format("2006-01-02"),
			t.Amount.StringFixed(2),
			t.Category,
			t.Description,
			t.Note,
			t.Account,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
