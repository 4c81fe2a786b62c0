package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdocs/invoice-extractor/constants"
	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/pdftest"
)

func TestLoadValidPDF(t *testing.T) {
	l := NewLoader(0, nil)
	data := pdftest.MinimalPDF()

	doc, err := l.Load(bytes.NewReader(data), "invoices/inv.pdf", constants.MediaTypePDF)
	require.NoError(t, err)
	assert.Equal(t, "inv.pdf", doc.Filename)
	assert.Equal(t, constants.MediaTypePDF, doc.MediaType)
	assert.Equal(t, data, doc.Content)
	assert.Equal(t, 1, doc.Pages)
}

func TestLoadAcceptsGenericContentTypes(t *testing.T) {
	l := NewLoader(0, nil)
	for _, ct := range []string{"", "application/octet-stream", "application/pdf; charset=binary", "Application/PDF"} {
		_, err := l.Load(bytes.NewReader(pdftest.MinimalPDF()), "inv.pdf", ct)
		assert.NoError(t, err, "content type %q", ct)
	}
}

func TestLoadRejectsWrongExtension(t *testing.T) {
	l := NewLoader(0, nil)
	_, err := l.Load(bytes.NewReader(pdftest.MinimalPDF()), "inv.docx", constants.MediaTypePDF)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindInvalidDocument))
	assert.Contains(t, err.Error(), "docx")
}

func TestLoadRejectsWrongContentType(t *testing.T) {
	l := NewLoader(0, nil)
	_, err := l.Load(bytes.NewReader(pdftest.MinimalPDF()), "inv.pdf", "image/png")
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindInvalidDocument))
}

func TestLoadRejectsEmptyDocument(t *testing.T) {
	l := NewLoader(0, nil)
	_, err := l.Load(bytes.NewReader(nil), "inv.pdf", constants.MediaTypePDF)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindInvalidDocument))
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadRejectsOversizedDocument(t *testing.T) {
	l := NewLoader(64, nil)
	big := constants.PDFSignature + strings.Repeat("x", 100)
	_, err := l.Load(strings.NewReader(big), "inv.pdf", constants.MediaTypePDF)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindInvalidDocument))
	assert.Contains(t, err.Error(), "limit")
}

func TestLoadRejectsMissingSignature(t *testing.T) {
	l := NewLoader(0, nil)
	_, err := l.Load(strings.NewReader("this is plain text, not a pdf"), "inv.pdf", constants.MediaTypePDF)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindInvalidDocument))
	assert.Contains(t, err.Error(), "signature")
}

func TestLoadRejectsTruncatedPDF(t *testing.T) {
	l := NewLoader(0, nil)
	data := pdftest.MinimalPDF()
	_, err := l.Load(bytes.NewReader(data[:len(data)/2]), "inv.pdf", constants.MediaTypePDF)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindInvalidDocument))
}
