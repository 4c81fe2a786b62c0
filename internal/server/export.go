package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport streams the session's accumulated rows as an XLSX download.
func (s *Server) handleExport(c *gin.Context) {
	rows := s.sessions.Rows(sessionID(c))
	data, err := s.writer.WriteRows(rows)
	if err != nil {
		respondAppError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice_extraction_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// handleClearResults drops the session's accumulated rows.
func (s *Server) handleClearResults(c *gin.Context) {
	s.sessions.ClearRows(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
