package constants

// NotFound is the sentinel written wherever the model could not locate a
// value. It appears in results and exports verbatim.
const NotFound = "NOT FOUND"

// Canonical extraction field keys, as they appear in prompts, model output
// and the validation schema.
const (
	FieldInvoiceDate      = "invoice_date"
	FieldInvoiceNumber    = "invoice_number"
	FieldBLNumber         = "bl_number"
	FieldPortOfLoading    = "port_of_loading"
	FieldCYCFSDestination = "cy_cfs_destination"
	FieldContainerNumbers = "container_numbers"
	FieldContainerSizes   = "container_sizes"
	FieldGrossWeights     = "gross_weights"
	FieldTotalAmount      = "total_amount"
)

// RequiredFields lists every field an extraction must cover, in prompt order.
var RequiredFields = []string{
	FieldInvoiceDate,
	FieldInvoiceNumber,
	FieldBLNumber,
	FieldPortOfLoading,
	FieldCYCFSDestination,
	FieldContainerNumbers,
	FieldContainerSizes,
	FieldGrossWeights,
	FieldTotalAmount,
}

// ExportSheet is the single worksheet name in exported workbooks.
const ExportSheet = "Invoices"

// ExportColumns are the spreadsheet headers, in cell order. They must stay
// aligned with entity.ExportRow.Values.
var ExportColumns = []string{
	"File Name",
	"Invoice Date",
	"Invoice Number",
	"BL Number",
	"Port of Loading",
	"CY/CFS Destination",
	"Container Number",
	"Container Size",
	"Gross Weight",
	"Total Amount",
}
