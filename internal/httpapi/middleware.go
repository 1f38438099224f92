package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/users"
)

const (
	identityKey = "identity"
	tokenKey    = "session_token"
)

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if status >= 500 {
			log.Error("http request", fields...)
			return
		}
		log.Info("http request", fields...)
	}
}

// requestToken reads the session token from a bearer header, falling back to
// the session cookie.
func requestToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		id, err := s.deps.Sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			s.writeError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, id)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func identity(c *gin.Context) users.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(users.Identity); ok {
			return id
		}
	}
	return users.Identity{}
}
