package export

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/entity"
)

// Writer serializes accumulated export rows into XLSX workbooks.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteRows returns an XLSX workbook (as bytes) with one fixed, named column
// per field and one data row per ExportRow. Zero rows is KindEmptyExportSet:
// there is nothing meaningful to download.
func (w *Writer) WriteRows(rows []entity.ExportRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, common.NewAppError(common.KindEmptyExportSet, "no rows to export", nil)
	}
	start := time.Now()

	f := excelize.NewFile()
	sheet := constants.ExportSheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range constants.ExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, r := range rows {
		for colIdx, v := range r.Values() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the columns that carry long values
	_ = f.SetColWidth(sheet, "A", "A", 32) // file name
	_ = f.SetColWidth(sheet, "B", "C", 16) // date, invoice number
	_ = f.SetColWidth(sheet, "D", "D", 20) // b/l number
	_ = f.SetColWidth(sheet, "E", "F", 26) // ports
	_ = f.SetColWidth(sheet, "G", "G", 18) // container number
	_ = f.SetColWidth(sheet, "H", "J", 14) // size, weight, amount

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ReadRows reads a previously produced workbook back into export rows.
// Used by the round-trip tests and by the batch tool's resume pass.
func ReadRows(r io.Reader) ([]entity.ExportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx open: %w", err)
	}
	defer f.Close()

	raw, err := f.GetRows(constants.ExportSheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx read sheet %q: %w", constants.ExportSheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	rows := make([]entity.ExportRow, 0, len(raw)-1)
	for _, cells := range raw[1:] { // skip header
		get := func(i int) string {
			if i < len(cells) {
				return cells[i]
			}
			return ""
		}
		rows = append(rows, entity.ExportRow{
			FileName:         get(0),
			InvoiceDate:      get(1),
			InvoiceNumber:    get(2),
			BLNumber:         get(3),
			PortOfLoading:    get(4),
			CYCFSDestination: get(5),
			ContainerNumber:  get(6),
			ContainerSize:    get(7),
			GrossWeight:      get(8),
			TotalAmount:      get(9),
		})
	}
	return rows, nil
}
