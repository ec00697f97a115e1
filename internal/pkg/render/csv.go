package render

import (
	"encoding/csv"
	"fmt"
	"io"
)

// RenderCSV writes one row per attendance record in the week. Absentees have no rows.
func RenderCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(tableHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range r.rows() {
		if err := cw.Write(r.tableRow(rec)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
