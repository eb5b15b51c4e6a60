package middleware

import (
	"net/http" // Status classes
	"strconv"  // Header formatting

	"github.com/gin-gonic/gin" // Gin web framework
)

// Response cache profiles, in seconds
const (
	Default10 = 10
	Default20 = 20
)

// CacheControl marks successful responses as publicly cacheable for seconds
func CacheControl(seconds int) gin.HandlerFunc {
	value := "public,max-age=" + strconv.Itoa(seconds)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Writer = &successOnlyCacheWriter{ResponseWriter: c.Writer}
		c.Next()
	}
}

// successOnlyCacheWriter drops Cache-Control when the status is not 2xx
type successOnlyCacheWriter struct {
	gin.ResponseWriter
}

func (w *successOnlyCacheWriter) WriteHeader(code int) {
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		w.Header().Del("Cache-Control")
	}
	w.ResponseWriter.WriteHeader(code)
}
