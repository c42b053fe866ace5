package importer

import (
	"context"
	"strings"
)

// Source loads raw records from one kind of input.
type Source interface {
	Load(ctx context.Context, opts Options) ([]Record, error)
}

// Method labels recorded in the import history.
const (
	MethodUploadCSV   = "Upload CSV"
	MethodUploadExcel = "Upload Excel"
	MethodUploadJSON  = "Upload JSON"
	MethodAPI         = "API"
	MethodJSON        = "JSON"
)

// rowsToRecords turns a header row plus data rows into records. Fully empty
// rows are skipped and short rows are padded with empty strings.
func rowsToRecords(rows [][]string) []Record {
	records := []Record{}
	if len(rows) == 0 {
		return records
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec := make(Record, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
