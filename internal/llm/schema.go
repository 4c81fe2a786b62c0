package llm

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. The sanitizer runs before validation, so nulls are already
// gone and every value is a string; the schema pins the overall shape.
func BuildInvoiceJSONSchema() map[string]any {
	str := map[string]any{"type": "string"}
	strArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_date":       str,
			"invoice_number":     str,
			"bl_number":          str,
			"port_of_loading":    str,
			"cy_cfs_destination": str,
			"container_numbers":  strArray,
			"container_sizes":    strArray,
			"gross_weights": map[string]any{
				"type": "array",
				// empty string marks an unparseable weight kept for positional alignment
				"items": map[string]any{"type": "string", "pattern": `^(-?\d+(\.\d+)?)?$`},
			},
			"total_amount": map[string]any{"type": "string", "pattern": `^-?\d+(\.\d+)?$`},
		},
	}
}
