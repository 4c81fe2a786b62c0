package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/pipeline"
)

type extractResponse struct {
	Stage        string `json:"stage"`
	Data         any    `json:"data"`
	Rows         int    `json:"rows"`
	TotalRecords int    `json:"total_records"`
}

// handleExtract runs the pipeline for one uploaded document. On success the
// mapped rows join the session's accumulated set; on any failure the session
// is left untouched.
func (s *Server) handleExtract(c *gin.Context) {
	sid := sessionID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_document", "no file uploaded")
		return
	}
	defer file.Close()

	promptTemplate := c.PostForm("prompt")
	if promptTemplate == "" {
		promptTemplate = s.sessions.PromptTemplate(sid)
	}
	apiKey := c.PostForm("api_key")
	if apiKey == "" {
		apiKey = s.sessions.APIKey(sid)
	}

	ctx := common.WithRequestID(c.Request.Context(), RequestIDFromContext(c))
	ctx = common.WithSessionID(ctx, sid)
	outcome, err := s.processor.Run(ctx, pipeline.RunInput{
		Upload:         file,
		Filename:       header.Filename,
		DeclaredType:   header.Header.Get("Content-Type"),
		PromptTemplate: promptTemplate,
		APIKey:         apiKey,
	})
	if err != nil {
		s.logger.Warn("extract.failed",
			"request_id", RequestIDFromContext(c),
			"failed_at", string(outcome.FailedAt),
			"raw_bytes", len(outcome.Raw),
		)
		respondAppError(c, err)
		return
	}

	total := s.sessions.AddRows(sid, outcome.Rows)
	c.JSON(http.StatusOK, extractResponse{
		Stage:        string(outcome.Stage),
		Data:         outcome.Result,
		Rows:         len(outcome.Rows),
		TotalRecords: total,
	})
}
