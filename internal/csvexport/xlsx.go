package csvexport

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "metadata"

// EncodeXLSX renders the frame as an XLSX workbook with the same header and
// column order as the CSV encoding.
func EncodeXLSX(f *Frame) ([]byte, error) {
	x := excelize.NewFile()
	defer func() { _ = x.Close() }()

	if _, err := x.NewSheet(xlsxSheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	if err := x.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := x.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, row := range f.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := x.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeXLSX parses a persisted XLSX artifact back into a Frame.
func DecodeXLSX(data []byte) (*Frame, error) {
	x, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = x.Close() }()

	rows, err := x.GetRows(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	if len(rows) == 0 {
		return &Frame{}, nil
	}

	f := &Frame{}
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells; pad back to the fixed width.
		padded := make([]string, len(Columns))
		copy(padded, row)
		f.Rows = append(f.Rows, padded)
	}
	return f, nil
}
