package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Data"

// WriteXLSX renders the data as a real xlsx workbook with a single Data
// sheet. Title and subtitle, when present, occupy the first rows above the
// header line.
func WriteXLSX(w io.Writer, data ExportData) error {
	if len(data.Headers) == 0 {
		return ErrNoHeaders
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := setCell(f, row, 1, data.Title); err != nil {
			return err
		}
		row++
	}
	if data.Subtitle != "" {
		if err := setCell(f, row, 1, data.Subtitle); err != nil {
			return err
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := row
	for col, header := range data.Headers {
		if err := setCell(f, headerRow, col+1, header); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(data.Headers), headerRow)
	if err := f.SetCellStyle(xlsxSheet, first, last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	row++

	for _, dataRow := range data.Rows {
		for col, header := range data.Headers {
			if err := setCell(f, row, col+1, dataRow.cell(header)); err != nil {
				return err
			}
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell %d,%d: %w", col, row, err)
	}
	if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
