package tabular

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/entity"
	"github.com/freightdocs/invoice-extractor/internal/llm"
)

func TestBuildResultPairsParallelArrays(t *testing.T) {
	res := BuildResult("inv.pdf", llm.InvoiceExtraction{
		InvoiceNumber:    "202057121",
		InvoiceDate:      "11-Oct-2021",
		BLNumber:         "USMSP0000004006",
		PortOfLoading:    "Oakland",
		CYCFSDestination: "IDJKT / Jakarta, Java, JK",
		ContainerNumbers: []string{"BMOU1441213", "MSKU9876543"},
		ContainerSizes:   []string{"40HC", "20GP"},
		GrossWeights:     []string{"7678.28", "5432.1"},
		TotalAmount:      "1341",
	})

	require.Len(t, res.Containers, 2)
	assert.Equal(t, "inv.pdf", res.SourceFile)
	assert.Equal(t, "BMOU1441213", res.Containers[0].ContainerNumber)
	assert.Equal(t, "20GP", res.Containers[1].ContainerSize)
	assert.Equal(t, "5432.1", res.Containers[1].GrossWeight)
}

func TestBuildResultRaggedArraysPadWithSentinel(t *testing.T) {
	res := BuildResult("inv.pdf", llm.InvoiceExtraction{
		ContainerNumbers: []string{"BMOU1441213", "MSKU9876543", "TGHU1234567"},
		GrossWeights:     []string{"7678.28"},
	})

	require.Len(t, res.Containers, 3)
	assert.Equal(t, "7678.28", res.Containers[0].GrossWeight)
	assert.Equal(t, constants.NotFound, res.Containers[1].GrossWeight)
	assert.Equal(t, constants.NotFound, res.Containers[2].GrossWeight)
	for _, c := range res.Containers {
		assert.Equal(t, constants.NotFound, c.ContainerSize)
	}
}

func TestBuildResultWeightsLongerThanNumbers(t *testing.T) {
	// Sub-record count follows the longest array so no weight is dropped.
	res := BuildResult("inv.pdf", llm.InvoiceExtraction{
		GrossWeights: []string{"100", "200"},
	})
	require.Len(t, res.Containers, 2)
	assert.Equal(t, constants.NotFound, res.Containers[0].ContainerNumber)
	assert.Equal(t, "200", res.Containers[1].GrossWeight)
}

func TestBuildResultMissingInvoiceFieldsGetSentinel(t *testing.T) {
	res := BuildResult("inv.pdf", llm.InvoiceExtraction{})
	assert.Equal(t, constants.NotFound, res.Invoice.InvoiceNumber)
	assert.Equal(t, constants.NotFound, res.Invoice.InvoiceDate)
	assert.Equal(t, constants.NotFound, res.Invoice.BLNumber)
	assert.Equal(t, constants.NotFound, res.Invoice.PortOfLoading)
	assert.Equal(t, constants.NotFound, res.Invoice.CYCFSDestination)
	assert.Equal(t, constants.NotFound, res.Invoice.TotalAmount)
	assert.Empty(t, res.Containers)
}

func TestMapRowsRowCountLaw(t *testing.T) {
	// max(1, N) rows, invoice-level fields replicated on every row.
	for n := 0; n <= 5; n++ {
		t.Run(fmt.Sprintf("containers=%d", n), func(t *testing.T) {
			res := entity.ExtractionResult{
				SourceFile: "inv.pdf",
				Invoice: entity.InvoiceFields{
					InvoiceNumber: "INV-42",
					InvoiceDate:   "01-Jan-2024",
					BLNumber:      "BL-7",
					PortOfLoading: "Santos",
					TotalAmount:   "99.50",
				},
			}
			for i := 0; i < n; i++ {
				res.Containers = append(res.Containers, entity.ContainerDetail{
					ContainerNumber: fmt.Sprintf("MSKU000000%d", i),
					ContainerSize:   "40HC",
					GrossWeight:     "1000",
				})
			}

			rows := MapRows(res)
			want := n
			if want == 0 {
				want = 1
			}
			require.Len(t, rows, want)
			for _, r := range rows {
				assert.Equal(t, "INV-42", r.InvoiceNumber)
				assert.Equal(t, "01-Jan-2024", r.InvoiceDate)
				assert.Equal(t, "BL-7", r.BLNumber)
				assert.Equal(t, "Santos", r.PortOfLoading)
				assert.Equal(t, "99.50", r.TotalAmount)
				assert.Equal(t, "inv.pdf", r.FileName)
			}
			for i := 0; i < n; i++ {
				assert.Equal(t, fmt.Sprintf("MSKU000000%d", i), rows[i].ContainerNumber)
			}
		})
	}
}

func TestMapRowsZeroContainersEmitsPlaceholderRow(t *testing.T) {
	rows := MapRows(entity.ExtractionResult{
		SourceFile: "empty.pdf",
		Invoice:    entity.InvoiceFields{InvoiceNumber: "INV-1"},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, constants.NotFound, rows[0].ContainerNumber)
	assert.Equal(t, constants.NotFound, rows[0].ContainerSize)
	assert.Equal(t, constants.NotFound, rows[0].GrossWeight)
	assert.Equal(t, "INV-1", rows[0].InvoiceNumber)
}

func TestMapRowsPreservesContainerOrder(t *testing.T) {
	res := BuildResult("inv.pdf", llm.InvoiceExtraction{
		ContainerNumbers: []string{"AAAA1111111", "BBBB2222222", "CCCC3333333"},
	})
	rows := MapRows(res)
	require.Len(t, rows, 3)
	assert.Equal(t, "AAAA1111111", rows[0].ContainerNumber)
	assert.Equal(t, "BBBB2222222", rows[1].ContainerNumber)
	assert.Equal(t, "CCCC3333333", rows[2].ContainerNumber)
}
