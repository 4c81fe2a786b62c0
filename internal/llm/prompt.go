package llm

import (
	"regexp"
	"strings"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/common"
)

// DefaultTemplate is the built-in extraction instruction. Users may replace
// it per session; Compose guarantees schema completeness either way.
const DefaultTemplate = `You are an expert data extraction agent specialized in Logistics and Shipping documents. Your goal is to extract the specific fields below from the attached invoice with 100% precision.

### FIELDS TO EXTRACT:
1. **invoice_date**: Look for "Invoice Date:". Keep the printed format (e.g., 11-Oct-2021).
2. **invoice_number**: Look for "Invoice No.:" or "Invoice Number". (e.g., 202057121).
3. **bl_number**: Look for "HB/L No.:" or "Bill of Lading". (e.g., USMSP0000004006).
4. **port_of_loading**: Look specifically for "Port of Loading", not any other port. Extract the city/location name (e.g., Oakland).
5. **cy_cfs_destination**: Sits between "Port of Discharge" and "Final Destination". Extract the FULL value including code and location (e.g., "IDJKT / Jakarta, Java, JK"). If it is empty, keep it empty.
6. **container_numbers**: Look under "Marks and Numbers". Extract ALL container numbers as a list. Each container is an 11-character alphanumeric code (4 letters + 7 digits). If only one container, still return an array (e.g., ["BMOU1441213"]).
7. **container_sizes**: The size/type printed next to each container (e.g., "40HC", "20GP"). Return an array in the SAME ORDER as container_numbers.
8. **gross_weights**: Look for "Gross Weight" for EACH container. Return an array in the SAME ORDER as container_numbers, numeric only (e.g., [7678.280]).
9. **total_amount**: Look for "Total Amount" or "Total Invoice / Credit Amount". Return ONLY the numeric value (e.g., 1341.00).

### RULES FOR ACCURACY:
- **NO HALLUCINATIONS**: If a field is not clearly present, return null. Do not infer or guess.
- **FORMATTING**: Remove all spaces from container numbers. For weights and amounts, remove currency symbols (USD) and unit labels (KGS); use a period (.) as the decimal separator.
- **DEDUPLICATION**: If the invoice number appears in multiple places, ensure they match and return one instance.`

// outputContract is appended to every composed prompt so the response is
// machine-parseable regardless of what the user's template says.
const outputContract = `### OUTPUT CONTRACT:
Return ONLY a single JSON object. No prose, no markdown fences.
Keys: invoice_date, invoice_number, bl_number, port_of_loading, cy_cfs_destination, container_numbers, container_sizes, gross_weights, total_amount.
container_numbers, container_sizes and gross_weights are arrays aligned by index, one entry per container, in document order. An invoice may have zero containers: return empty arrays then.
Return null for any field that is not clearly present.`

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// Compose finalizes an instruction template into the prompt sent upstream.
// Recognized placeholders: {{field_list}} and {{output_format}}. Any other
// placeholder fails with KindInvalidPromptTemplate. If the template omits a
// required field name, a completeness clause is injected so the schema is
// never silently narrowed. Pure function: same template, same bytes out.
func Compose(template string) (string, error) {
	tpl := strings.TrimSpace(template)
	if tpl == "" {
		tpl = DefaultTemplate
	}

	var badToken string
	expanded := placeholderRe.ReplaceAllStringFunc(tpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		switch name {
		case "field_list":
			return strings.Join(constants.RequiredFields, ", ")
		case "output_format":
			return outputContract
		default:
			if badToken == "" {
				badToken = name
			}
			return m
		}
	})
	if badToken != "" {
		return "", common.NewAppError(common.KindInvalidPromptTemplate,
			"unresolvable placeholder {{"+badToken+"}}", nil)
	}

	var b strings.Builder
	b.WriteString(expanded)

	if missing := missingFields(expanded); len(missing) > 0 {
		b.WriteString("\n\n### ADDITIONAL REQUIRED FIELDS:\nAlso extract the following fields, returning null where a value is not clearly present: ")
		b.WriteString(strings.Join(missing, ", "))
		b.WriteString(".")
	}

	if !strings.Contains(expanded, outputContract) {
		b.WriteString("\n\n")
		b.WriteString(outputContract)
	}
	return b.String(), nil
}

func missingFields(prompt string) []string {
	var missing []string
	for _, f := range constants.RequiredFields {
		if !strings.Contains(prompt, f) {
			missing = append(missing, f)
		}
	}
	return missing
}
