package llm

import (
	"context"

	"github.com/freightdocs/invoice-extractor/internal/entity"
)

// InvoiceExtraction is the normalized shape we want from the model.
// Container fields are parallel arrays aligned by index, one entry per
// container, in document order. Absent fields stay empty here; sentinel
// substitution happens downstream in the tabular mapper.
type InvoiceExtraction struct {
	InvoiceDate      string   `json:"invoice_date,omitempty"`
	InvoiceNumber    string   `json:"invoice_number,omitempty"`
	BLNumber         string   `json:"bl_number,omitempty"`
	PortOfLoading    string   `json:"port_of_loading,omitempty"`
	CYCFSDestination string   `json:"cy_cfs_destination,omitempty"`
	ContainerNumbers []string `json:"container_numbers,omitempty"`
	ContainerSizes   []string `json:"container_sizes,omitempty"`
	GrossWeights     []string `json:"gross_weights,omitempty"` // decimal strings
	TotalAmount      string   `json:"total_amount,omitempty"`  // decimal string
}

// ExtractRequest bundles everything one extraction call needs.
// The APIKey is used for the call and never stored or logged.
type ExtractRequest struct {
	Document *entity.UploadedDocument
	Prompt   string
	APIKey   string
}

// Extractor is the interface the pipeline depends on. The second return
// value is the raw model JSON, retained for diagnostics on failure.
type Extractor interface {
	ExtractInvoice(ctx context.Context, req ExtractRequest) (InvoiceExtraction, []byte, error)
}
