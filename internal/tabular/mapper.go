package tabular

import (
	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/entity"
	"github.com/freightdocs/invoice-extractor/internal/llm"
)

// BuildResult turns a normalized extraction into an ExtractionResult.
// The model reports container fields as parallel arrays; the sub-record
// count follows the longest array and shorter arrays are padded with the
// sentinel so one ragged field never hides a container. Document order is
// preserved.
func BuildResult(fileName string, x llm.InvoiceExtraction) entity.ExtractionResult {
	n := len(x.ContainerNumbers)
	if len(x.ContainerSizes) > n {
		n = len(x.ContainerSizes)
	}
	if len(x.GrossWeights) > n {
		n = len(x.GrossWeights)
	}

	containers := make([]entity.ContainerDetail, 0, n)
	for i := 0; i < n; i++ {
		containers = append(containers, entity.ContainerDetail{
			ContainerNumber: at(x.ContainerNumbers, i),
			ContainerSize:   at(x.ContainerSizes, i),
			GrossWeight:     at(x.GrossWeights, i),
		})
	}

	return entity.ExtractionResult{
		SourceFile: fileName,
		Invoice: entity.InvoiceFields{
			InvoiceNumber:    orSentinel(x.InvoiceNumber),
			InvoiceDate:      orSentinel(x.InvoiceDate),
			BLNumber:         orSentinel(x.BLNumber),
			PortOfLoading:    orSentinel(x.PortOfLoading),
			CYCFSDestination: orSentinel(x.CYCFSDestination),
			TotalAmount:      orSentinel(x.TotalAmount),
		},
		Containers: containers,
	}
}

// MapRows flattens a result into export rows: invoice-level fields repeated
// across max(1, N) rows, one per container. Zero containers still yield one
// row with sentinel container fields, so a parsed document always exports.
func MapRows(res entity.ExtractionResult) []entity.ExportRow {
	containers := res.Containers
	if len(containers) == 0 {
		containers = []entity.ContainerDetail{{
			ContainerNumber: constants.NotFound,
			ContainerSize:   constants.NotFound,
			GrossWeight:     constants.NotFound,
		}}
	}

	rows := make([]entity.ExportRow, 0, len(containers))
	for _, c := range containers {
		rows = append(rows, entity.ExportRow{
			FileName:         res.SourceFile,
			InvoiceDate:      res.Invoice.InvoiceDate,
			InvoiceNumber:    res.Invoice.InvoiceNumber,
			BLNumber:         res.Invoice.BLNumber,
			PortOfLoading:    res.Invoice.PortOfLoading,
			CYCFSDestination: res.Invoice.CYCFSDestination,
			ContainerNumber:  c.ContainerNumber,
			ContainerSize:    c.ContainerSize,
			GrossWeight:      c.GrossWeight,
			TotalAmount:      res.Invoice.TotalAmount,
		})
	}
	return rows
}

func at(s []string, i int) string {
	if i < len(s) {
		return orSentinel(s[i])
	}
	return constants.NotFound
}

func orSentinel(s string) string {
	if s == "" {
		return constants.NotFound
	}
	return s
}
