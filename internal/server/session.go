package server

import (
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "xtr_session"
	sessionIDKey  = "sessionId"
	cookieMaxAge  = 12 * 60 * 60
)

// ensureSession reads or mints the session cookie. The cookie only carries
// an opaque ID; all session state lives server-side in memory.
func (s *Server) ensureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = s.sessions.NewID()
			c.SetCookie(sessionCookie, id, cookieMaxAge, "/", "", false, true)
		}
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
