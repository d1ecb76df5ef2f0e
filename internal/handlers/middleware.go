package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader = "X-API-Key"
	apiKeyQuery  = "api_key"
	ownerKey     = "owner"
)

// apiKeyMiddleware resolves the caller's owner name. With authentication
// disabled every request belongs to service.AnonymousOwner.
func (h *Handler) apiKeyMiddleware(c *gin.Context) {
	key := c.GetHeader(apiKeyHeader)
	if key == "" {
		key = c.Query(apiKeyQuery)
	}

	owner, err := h.services.APIKeys.Verify(key)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or missing api key",
		})
		return
	}

	// store in Gin context
	c.Set(ownerKey, owner)
	c.Next()
}

func ownerFrom(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// requestLogger writes one line per request once the handler chain is done.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"client_ip", c.ClientIP(),
		"owner", ownerFrom(c),
	)
}
