package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freightdocs/invoice-extractor/internal/common"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// respondAppError maps a pipeline error to an HTTP status and renders the
// standardized envelope. Every kind is recovered here; nothing crashes the
// process on a bad upload or a flaky upstream.
func respondAppError(c *gin.Context, err error) {
	kind := common.KindOf(err)
	respondError(c, statusForKind(kind), strings.ToLower(string(kind)), messageFor(err))
}

func statusForKind(kind common.ErrorKind) int {
	switch kind {
	case common.KindInvalidDocument, common.KindInvalidPromptTemplate:
		return http.StatusBadRequest
	case common.KindInvalidCredential:
		return http.StatusUnauthorized
	case common.KindUpstreamUnavailable, common.KindMalformedResponse:
		return http.StatusBadGateway
	case common.KindEmptyExportSet:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor keeps the caller-facing message to the AppError's own message,
// without the wrapped cause chain.
func messageFor(err error) string {
	var ae *common.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal error"
}
