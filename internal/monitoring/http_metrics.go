package monitoring

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	activeHTTPRequests atomic.Int64
	totalHTTPRequests  atomic.Uint64
	serverErrorsTotal  atomic.Uint64
)

// RequestCounters tracks in-flight and total request counts plus how
// many responses were server errors.
func RequestCounters() gin.HandlerFunc {
	return func(c *gin.Context) {
		activeHTTPRequests.Add(1)
		totalHTTPRequests.Add(1)
		defer activeHTTPRequests.Add(-1)

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			serverErrorsTotal.Add(1)
		}
	}
}

func requestCounts() (active int64, total uint64, serverErrors uint64) {
	return activeHTTPRequests.Load(), totalHTTPRequests.Load(), serverErrorsTotal.Load()
}
