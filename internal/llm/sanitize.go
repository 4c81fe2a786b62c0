package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var textFields = []string{
	"invoice_date", "invoice_number", "bl_number", "port_of_loading", "cy_cfs_destination",
}

var arrayFields = []string{"container_numbers", "container_sizes", "gross_weights"}

// NormalizeExtraction reshapes a raw model document so it can validate:
//   - strips markdown fences some models wrap JSON in
//   - renames singular/synonym keys to the canonical plural ones
//   - wraps scalars into single-element arrays for the container fields
//   - coerces numbers to decimal strings, drops nulls and unknown keys
//
// Misaligned or unparseable container entries become empty strings so array
// order (and therefore container pairing) is preserved; the tabular mapper
// substitutes sentinels field by field. Returns the cleaned document and the
// list of keys it dropped or rewrote.
func NormalizeExtraction(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(stripFences(raw), &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	rename := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms the batch prompts historically produced
	rename("container_number", "container_numbers")
	rename("container_size", "container_sizes")
	rename("gross_weight", "gross_weights")
	rename("total_payable_amount", "total_amount")
	rename("total", "total_amount")

	// 2) invoice-level text fields: trim, drop null/empty
	for _, k := range textFields {
		switch t := m[k].(type) {
		case nil:
			if _, ok := m[k]; ok {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		default:
			if _, ok := m[k]; ok {
				m[k] = strings.TrimSpace(fmt.Sprintf("%v", t))
			}
		}
	}

	// 3) container arrays: scalars become single-element arrays, elements
	// become strings, nulls become "" to keep index alignment
	for _, k := range arrayFields {
		v, ok := m[k]
		if !ok {
			continue
		}
		if v == nil {
			delete(m, k)
			dropped = append(dropped, k+"(null)")
			continue
		}
		items, isArray := v.([]any)
		if !isArray {
			items = []any{v}
			dropped = append(dropped, k+"(scalar)")
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, coerceElement(k, it))
		}
		m[k] = out
	}

	// 4) total_amount: number -> decimal string; unparseable -> drop
	if v, ok := m["total_amount"]; ok {
		if s, parsed := asDecimalString(v); parsed {
			m["total_amount"] = s
		} else {
			delete(m, "total_amount")
			dropped = append(dropped, "total_amount(unparseable)")
		}
	}

	// 5) remove unknown keys (strict additionalProperties friendliness)
	allowed := map[string]struct{}{
		"invoice_date": {}, "invoice_number": {}, "bl_number": {},
		"port_of_loading": {}, "cy_cfs_destination": {},
		"container_numbers": {}, "container_sizes": {}, "gross_weights": {},
		"total_amount": {},
	}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize", "rewrites", dropped)
	}
	return out, dropped, nil
}

func coerceElement(field string, v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(t)
		switch field {
		case "container_numbers":
			// container codes never contain spaces
			return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
		case "gross_weights":
			if d, ok := asDecimalString(s); ok {
				return d
			}
			return ""
		}
		return s
	case float64:
		if field == "gross_weights" {
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
		return fmt.Sprintf("%v", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// asDecimalString accepts JSON numbers and number-ish strings (with stray
// spaces or thousands separators) and renders a plain decimal string.
func asDecimalString(v any) (string, bool) {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case string:
		s := strings.NewReplacer(" ", "", ",", "").Replace(strings.TrimSpace(t))
		if s == "" {
			return "", false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
	}
	return "", false
}

// stripFences removes a surrounding ```json ... ``` block when present.
func stripFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
