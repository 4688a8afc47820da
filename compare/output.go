package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the fixed column order of the report.
var csvHeader = []string{
	"original",
	"target",
	"original_status_code",
	"target_status_code",
	"original_path",
	"target_path",
}

// WriteCSV writes the comparison rows as CSV to the writer. The header row is
// always written, even when there are no rows.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Original,
			row.Target,
			strconv.Itoa(row.OriginalStatus),
			strconv.Itoa(row.TargetStatus),
			row.OriginalPath,
			row.TargetPath,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", row.Original, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
