// Package spreadsheet writes update sets to an .xlsx workbook.
package spreadsheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/xuri/excelize/v2"

	"github.com/conn-castle/snset/internal/messages"
	"github.com/conn-castle/snset/internal/updateset"
)

// DefaultFileName is used when no file name is given.
const DefaultFileName = "output"

const extension = ".xlsx"

// ErrNoRecords is returned when there is nothing to write.
var ErrNoRecords = errors.New(messages.SpreadsheetNoRecords)

// Path resolves the output path for fileName: blank names become
// DefaultFileName, ".xlsx" is appended when missing, and ~ is expanded.
func Path(fileName string) (string, error) {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = DefaultFileName
	}
	if !strings.EqualFold(filepath.Ext(name), extension) {
		name += extension
	}
	expanded, err := homedir.Expand(name)
	if err != nil {
		return "", fmt.Errorf(messages.SpreadsheetExpandPathFmt, name, err)
	}
	return expanded, nil
}

// Headers returns the column headers for records: the fields of the first record.
func Headers(records []updateset.Record) []string {
	if len(records) == 0 {
		return nil
	}
	return records[0].Fields()
}

// Write saves records to fileName and returns the written path.
//
// The header row holds the fields of the first record. Each following row is
// one record; fields missing from the header are dropped and reference values
// are written as their display string.
func Write(records []updateset.Record, fileName string) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	path, err := Path(fileName)
	if err != nil {
		return "", err
	}

	headers := Headers(records)
	column := make(map[string]int, len(headers))
	for i, h := range headers {
		column[h] = i
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return "", fmt.Errorf(messages.SpreadsheetHeaderFmt, path, err)
	}
	for i, record := range records {
		row := make([]any, len(headers))
		for j := range row {
			row[j] = ""
		}
		for _, field := range record.Fields() {
			idx, ok := column[field]
			if !ok {
				continue
			}
			row[idx] = record.String(field)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf(messages.SpreadsheetCellNameFmt, 1, i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf(messages.SpreadsheetRowFmt, i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf(messages.SpreadsheetSaveFmt, path, err)
	}
	return path, nil
}
