package document

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/entity"
)

// Loader buffers and validates uploaded documents. Nothing touches disk:
// the document lives in memory for the request and is discarded after.
type Loader struct {
	maxBytes int64
	logger   *slog.Logger
}

func NewLoader(maxBytes int64, logger *slog.Logger) *Loader {
	if maxBytes <= 0 {
		maxBytes = constants.MaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{maxBytes: maxBytes, logger: logger}
}

// Load reads the upload stream fully and validates that it is a non-empty,
// size-bounded, readable PDF. Every rejection carries KindInvalidDocument.
func (l *Loader) Load(r io.Reader, filename, declaredType string) (*entity.UploadedDocument, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return nil, common.NewAppError(common.KindInvalidDocument,
			fmt.Sprintf("unsupported file extension %q", ext), nil)
	}
	if !acceptableMediaType(declaredType) {
		return nil, common.NewAppError(common.KindInvalidDocument,
			fmt.Sprintf("unsupported content type %q", declaredType), nil)
	}

	// Read one byte past the ceiling so an oversized payload is detectable
	// without buffering all of it.
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, common.NewAppError(common.KindInvalidDocument, "reading upload", err)
	}
	if len(data) == 0 {
		return nil, common.NewAppError(common.KindInvalidDocument, "empty document", nil)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, common.NewAppError(common.KindInvalidDocument,
			fmt.Sprintf("document exceeds %d byte limit", l.maxBytes), nil)
	}
	if !bytes.HasPrefix(data, []byte(constants.PDFSignature)) {
		return nil, common.NewAppError(common.KindInvalidDocument, "missing PDF signature", nil)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, common.NewAppError(common.KindInvalidDocument, "unreadable PDF", err)
	}
	pages := reader.NumPage()

	l.logger.Debug("document.loaded",
		"filename", filename,
		"bytes", len(data),
		"pages", pages,
	)
	return &entity.UploadedDocument{
		Filename:  filepath.Base(filename),
		MediaType: constants.MediaTypePDF,
		Content:   data,
		Pages:     pages,
	}, nil
}

// acceptableMediaType allows the PDF media type plus the generic fallbacks
// browsers and curl commonly declare.
func acceptableMediaType(declared string) bool {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "", constants.MediaTypePDF, "application/octet-stream":
		return true
	}
	return false
}
