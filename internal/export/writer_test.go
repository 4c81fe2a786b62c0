package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/entity"
)

func sampleRows() []entity.ExportRow {
	return []entity.ExportRow{
		{
			FileName:         "a.pdf",
			InvoiceDate:      "11-Oct-2021",
			InvoiceNumber:    "202057121",
			BLNumber:         "USMSP0000004006",
			PortOfLoading:    "Oakland",
			CYCFSDestination: "IDJKT / Jakarta, Java, JK",
			ContainerNumber:  "BMOU1441213",
			ContainerSize:    "40HC",
			GrossWeight:      "7678.28",
			TotalAmount:      "1341",
		},
		{
			FileName:        "b.pdf",
			InvoiceDate:     "01-Jan-2024",
			InvoiceNumber:   "900001",
			BLNumber:        constants.NotFound,
			PortOfLoading:   "Santos",
			ContainerNumber: constants.NotFound,
			ContainerSize:   constants.NotFound,
			GrossWeight:     constants.NotFound,
			TotalAmount:     "650",
		},
	}
}

func TestWriteRowsEmptySetFails(t *testing.T) {
	w := NewWriter(nil)
	_, err := w.WriteRows(nil)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindEmptyExportSet))
}

func TestWriteRowsHeaderOrder(t *testing.T) {
	w := NewWriter(nil)
	data, err := w.WriteRows(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	raw, err := f.GetRows(constants.ExportSheet)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, constants.ExportColumns, raw[0])
}

func TestWriteReadRoundTrip(t *testing.T) {
	rows := sampleRows()
	w := NewWriter(nil)
	data, err := w.WriteRows(rows)
	require.NoError(t, err)

	got, err := ReadRows(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i := range rows {
		// GetRows trims trailing empty cells; absent values read back empty
		assert.Equal(t, rows[i].FileName, got[i].FileName)
		assert.Equal(t, rows[i].InvoiceNumber, got[i].InvoiceNumber)
		assert.Equal(t, rows[i].BLNumber, got[i].BLNumber)
		assert.Equal(t, rows[i].ContainerNumber, got[i].ContainerNumber)
		assert.Equal(t, rows[i].GrossWeight, got[i].GrossWeight)
		assert.Equal(t, rows[i].TotalAmount, got[i].TotalAmount)
	}
}

func TestReadRowsSingleSheetWorkbook(t *testing.T) {
	w := NewWriter(nil)
	data, err := w.WriteRows(sampleRows()[:1])
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{constants.ExportSheet}, f.GetSheetList())
}
