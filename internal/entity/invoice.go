package entity

// UploadedDocument is one uploaded file, fully buffered in memory.
// It lives for the duration of a single request and is never persisted.
type UploadedDocument struct {
	Filename  string
	MediaType string
	Content   []byte
	Pages     int
}

// InvoiceFields are the singular, invoice-level fields of one document.
// A field the model could not locate carries constants.NotFound.
type InvoiceFields struct {
	InvoiceNumber    string `json:"invoice_number"`
	InvoiceDate      string `json:"invoice_date"`
	BLNumber         string `json:"bl_number"`
	PortOfLoading    string `json:"port_of_loading"`
	CYCFSDestination string `json:"cy_cfs_destination"`
	TotalAmount      string `json:"total_amount"`
}

// ContainerDetail is one container-level sub-record. Fields the model could
// not pair up carry constants.NotFound individually.
type ContainerDetail struct {
	ContainerNumber string `json:"container_number"`
	ContainerSize   string `json:"container_size"`
	GrossWeight     string `json:"gross_weight"`
}

// ExtractionResult is the structured outcome of one extraction.
// Containers form an ordered sequence, length >= 0, in document order.
type ExtractionResult struct {
	SourceFile string            `json:"source_file"`
	Invoice    InvoiceFields     `json:"invoice"`
	Containers []ContainerDetail `json:"containers"`
}

// ExportRow is one flattened spreadsheet row: the invoice-level fields
// repeated, plus one container's fields. A container-less invoice still
// yields exactly one row with sentinel container fields.
type ExportRow struct {
	FileName         string `json:"file_name"`
	InvoiceDate      string `json:"invoice_date"`
	InvoiceNumber    string `json:"invoice_number"`
	BLNumber         string `json:"bl_number"`
	PortOfLoading    string `json:"port_of_loading"`
	CYCFSDestination string `json:"cy_cfs_destination"`
	ContainerNumber  string `json:"container_number"`
	ContainerSize    string `json:"container_size"`
	GrossWeight      string `json:"gross_weight"`
	TotalAmount      string `json:"total_amount"`
}

// Values returns the row's cells in constants.ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{
		r.FileName,
		r.InvoiceDate,
		r.InvoiceNumber,
		r.BLNumber,
		r.PortOfLoading,
		r.CYCFSDestination,
		r.ContainerNumber,
		r.ContainerSize,
		r.GrossWeight,
		r.TotalAmount,
	}
}
