package middleware

import (
	"time"

	"github.com/acme/invoicing/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records the count and latency of every request by route
// template, so /invoices/:id is one series however many ids are requested.
func HTTPMetrics(recorder telemetry.MetricsRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		recorder.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
