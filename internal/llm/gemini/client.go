package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/llm"
)

// ExtractInvoice implements llm.Extractor against the generateContent API.
// The document travels inline as base64; the response is constrained to JSON
// by response_mime_type plus a response schema, then validated locally.
func (c *Client) ExtractInvoice(ctx context.Context, req llm.ExtractRequest) (llm.InvoiceExtraction, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		key = c.cfg.APIKey
	}
	if key == "" {
		return llm.InvoiceExtraction{}, nil,
			common.NewAppError(common.KindInvalidCredential, "no API key supplied", nil)
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"document", req.Document.Filename,
		"document_bytes", len(req.Document.Content),
		"prompt_len", len(req.Prompt),
	)

	body := map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"text": req.Prompt},
				{"inline_data": map[string]any{
					"mime_type": req.Document.MediaType,
					"data":      base64.StdEncoding.EncodeToString(req.Document.Content),
				}},
			},
		}},
		"generationConfig": map[string]any{
			"temperature":        c.cfg.Temperature,
			"response_mime_type": "application/json",
			"response_schema":    responseSchema(),
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model + ":generateContent"
	raw, status, httpErr := llm.SendJSON(ctx, c.http, endpoint, body, map[string]string{
		"x-goog-api-key": key,
	}, c.logger)
	if httpErr != nil {
		kind, msg := classifyFailure(status, raw)
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "kind", string(kind),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceExtraction{}, raw, common.NewAppError(kind, msg, httpErr)
	}

	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceExtraction{}, raw,
			common.NewAppError(common.KindMalformedResponse, "decode response envelope", err)
	}
	if len(envelope.Candidates) == 0 {
		c.logger.Error("llm.extract.no_candidates",
			"req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.InvoiceExtraction{}, raw,
			common.NewAppError(common.KindMalformedResponse, "no candidates in response", nil)
	}
	var sb strings.Builder
	for _, p := range envelope.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	content := []byte(strings.TrimSpace(sb.String()))

	cleaned, _, err := llm.NormalizeExtraction(content, c.logger)
	if err != nil {
		c.logger.Error("llm.extract.normalize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceExtraction{}, content,
			common.NewAppError(common.KindMalformedResponse, "response is not structured data", err)
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildInvoiceJSONSchema(), cleaned); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceExtraction{}, content,
			common.NewAppError(common.KindMalformedResponse, "response does not match schema", err)
	}

	var out llm.InvoiceExtraction
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return llm.InvoiceExtraction{}, cleaned,
			common.NewAppError(common.KindMalformedResponse, "unmarshal fields", err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"invoice_number", out.InvoiceNumber,
		"containers", len(out.ContainerNumbers),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

// classifyFailure maps transport and API failures to error kinds. A rejected
// key is KindInvalidCredential; everything else upstream-side is
// KindUpstreamUnavailable. Retrying is deliberately left to callers.
func classifyFailure(status int, raw []byte) (common.ErrorKind, string) {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return common.KindInvalidCredential, "API key rejected"
	case status == http.StatusBadRequest && strings.Contains(string(raw), "API_KEY_INVALID"):
		return common.KindInvalidCredential, "API key rejected"
	case status == 0:
		return common.KindUpstreamUnavailable, "request failed or timed out"
	default:
		return common.KindUpstreamUnavailable, "upstream returned an error"
	}
}

// responseSchema is the generateContent structured-output constraint, in the
// API's OpenAPI-style dialect. Everything is nullable: a missing field must
// come back as null, never as a guess.
func responseSchema() map[string]any {
	nullableString := map[string]any{"type": "STRING", "nullable": true}
	stringArray := map[string]any{
		"type":     "ARRAY",
		"items":    map[string]any{"type": "STRING"},
		"nullable": true,
	}
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"invoice_date":       nullableString,
			"invoice_number":     nullableString,
			"bl_number":          nullableString,
			"port_of_loading":    nullableString,
			"cy_cfs_destination": nullableString,
			"container_numbers":  stringArray,
			"container_sizes":    stringArray,
			"gross_weights": map[string]any{
				"type":     "ARRAY",
				"items":    map[string]any{"type": "NUMBER"},
				"nullable": true,
			},
			"total_amount": map[string]any{"type": "NUMBER", "nullable": true},
		},
	}
}
