package match

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook matches the query against every cell of an Office Open XML
// spreadsheet, sheet by sheet.
type Workbook struct{}

// Contains implements Matcher.
func (Workbook) Contains(content []byte, query string) (bool, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return false, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	for _, sheet := range book.GetSheetList() {
		found, sheetErr := sheetContains(book, sheet, query)
		if sheetErr != nil {
			return false, sheetErr
		}

		if found {
			return true, nil
		}
	}

	return false, nil
}

// sheetContains streams one sheet's rows looking for the query.
func sheetContains(book *excelize.File, sheet, query string) (bool, error) {
	rows, err := book.Rows(sheet)
	if err != nil {
		return false, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	for rows.Next() {
		cells, rowErr := rows.Columns()
		if rowErr != nil {
			return false, fmt.Errorf("read row in %s: %w", sheet, rowErr)
		}

		for _, cell := range cells {
			if strings.Contains(cell, query) {
				return true, nil
			}
		}
	}

	return false, nil
}
