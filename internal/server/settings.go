package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freightdocs/invoice-extractor/internal/llm"
)

type settingsResponse struct {
	PromptTemplate string `json:"prompt_template"`
	DefaultPrompt  string `json:"default_prompt"`
	HasAPIKey      bool   `json:"has_api_key"`
}

type settingsRequest struct {
	PromptTemplate *string `json:"prompt_template"`
	APIKey         *string `json:"api_key"`
}

// handleGetSettings returns the session's settings. The API key itself is
// never echoed back, only whether one is set.
func (s *Server) handleGetSettings(c *gin.Context) {
	sid := sessionID(c)
	c.JSON(http.StatusOK, settingsResponse{
		PromptTemplate: s.sessions.PromptTemplate(sid),
		DefaultPrompt:  llm.DefaultTemplate,
		HasAPIKey:      s.sessions.HasAPIKey(sid),
	})
}

// handlePutSettings updates the session's prompt template and/or API key.
// A template is rejected up front if it cannot compose, so a broken override
// never surfaces later as a failed extraction.
func (s *Server) handlePutSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	sid := sessionID(c)

	if req.PromptTemplate != nil {
		if *req.PromptTemplate != "" {
			if _, err := llm.Compose(*req.PromptTemplate); err != nil {
				respondAppError(c, err)
				return
			}
		}
		s.sessions.SetPromptTemplate(sid, *req.PromptTemplate)
	}
	if req.APIKey != nil {
		s.sessions.SetAPIKey(sid, *req.APIKey)
	}

	c.JSON(http.StatusOK, settingsResponse{
		PromptTemplate: s.sessions.PromptTemplate(sid),
		DefaultPrompt:  llm.DefaultTemplate,
		HasAPIKey:      s.sessions.HasAPIKey(sid),
	})
}
