package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lithium-edu/exam-rooms-api/internal/service"
)

// Metrics records request counts and latency. The route template is used as
// the path label so /exams/:course_code stays a single series.
func Metrics(metrics *service.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
