package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvSource struct{}

func (csvSource) Load(ctx context.Context, opts Options) ([]Record, error) {
	data, err := os.ReadFile(opts.FilePath)
	if err != nil {
		return nil, &SourceError{Op: "error reading CSV file", Err: err}
	}
	records, err := parseCSV(data)
	if err != nil {
		return nil, &SourceError{Op: "error parsing CSV file", Err: err}
	}
	return records, nil
}

// parseCSV reads the whole document with the header row as keys. The
// delimiter is taken from the header line.
func parseCSV(data []byte) ([]Record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	return rowsToRecords(rows), nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
