package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// excelSource reads the first sheet of a workbook, header row as keys.
type excelSource struct {
	format Format
}

func (s excelSource) Load(ctx context.Context, opts Options) ([]Record, error) {
	var (
		rows [][]string
		err  error
	)
	if s.format == FormatXLS {
		rows, err = readXLS(opts.FilePath)
	} else {
		rows, err = readXLSX(opts.FilePath)
	}
	if err != nil {
		return nil, &SourceError{Op: "error reading Excel file", Err: err}
	}
	return rowsToRecords(rows), nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in workbook")
	}
	return f.GetRows(sheets[0])
}

func readXLS(path string) ([][]string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("no sheets found in workbook")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet.Name)
	}
	return rows, nil
}

// xlsRow returns nil for rows absent from the sheet; WorkSheet.Row
// dereferences them without a check.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
