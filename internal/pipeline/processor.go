package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/document"
	"github.com/freightdocs/invoice-extractor/internal/entity"
	"github.com/freightdocs/invoice-extractor/internal/llm"
	"github.com/freightdocs/invoice-extractor/internal/tabular"
)

// Processor drives one upload through the extraction pipeline:
// load -> compose -> extract -> map. Each request is a single linear pass;
// the model call is the only blocking stage and runs under a bounded timeout.
// Failures are never retried here: retry policy belongs to callers, since
// every repeated call costs quota.
type Processor struct {
	loader    *document.Loader
	extractor llm.Extractor
	timeout   time.Duration
	logger    *slog.Logger
}

func NewProcessor(loader *document.Loader, extractor llm.Extractor, timeout time.Duration, logger *slog.Logger) *Processor {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{loader: loader, extractor: extractor, timeout: timeout, logger: logger}
}

// RunInput is everything one request supplies.
type RunInput struct {
	Upload         io.Reader
	Filename       string
	DeclaredType   string
	PromptTemplate string // "" means the default template
	APIKey         string
}

// Outcome is the terminal state of one pipeline run. On failure Stage is
// StageFailed and FailedAt names the last stage that was in progress; Raw
// holds whatever the model returned, kept for diagnostics only.
type Outcome struct {
	Stage    constants.Stage
	FailedAt constants.Stage
	Result   entity.ExtractionResult
	Rows     []entity.ExportRow
	Raw      []byte
}

// Run executes the pipeline for a single upload.
func (p *Processor) Run(ctx context.Context, in RunInput) (*Outcome, error) {
	runID := uuid.New().String()
	start := time.Now()
	stage := constants.StageIdle
	logger := p.logger
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		logger = logger.With("request_id", rid)
	}

	advance := func(next constants.Stage) {
		logger.Info("pipeline.stage", "run_id", runID, "from", string(stage), "to", string(next))
		stage = next
	}
	fail := func(err error) (*Outcome, error) {
		failedAt := stage
		advance(constants.StageFailed)
		logger.Error("pipeline.failed",
			"run_id", runID,
			"failed_at", string(failedAt),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return &Outcome{Stage: constants.StageFailed, FailedAt: failedAt}, err
	}

	doc, err := p.loader.Load(in.Upload, in.Filename, in.DeclaredType)
	if err != nil {
		return fail(err)
	}
	advance(constants.StageDocumentReceived)

	prompt, err := llm.Compose(in.PromptTemplate)
	if err != nil {
		return fail(err)
	}
	advance(constants.StagePrompted)

	advance(constants.StageExtracting)
	extractCtx, cancel := context.WithTimeout(ctx, p.timeout)
	fields, raw, err := p.extractor.ExtractInvoice(extractCtx, llm.ExtractRequest{
		Document: doc,
		Prompt:   prompt,
		APIKey:   in.APIKey,
	})
	cancel()
	if err != nil {
		out, ferr := fail(err)
		out.Raw = raw
		return out, ferr
	}

	result := tabular.BuildResult(doc.Filename, fields)
	rows := tabular.MapRows(result)
	advance(constants.StageMapped)
	advance(constants.StageReady)

	logger.Info("pipeline.ready",
		"run_id", runID,
		"file", doc.Filename,
		"containers", len(result.Containers),
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Outcome{
		Stage:  constants.StageReady,
		Result: result,
		Rows:   rows,
		Raw:    raw,
	}, nil
}
