package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is echoed back on every response so clients can correlate
// attendance API calls with server logs.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware tags each request with an identifier. A caller-supplied
// X-Request-ID is kept as-is; otherwise a fresh UUID is issued.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// Value reads the request identifier back out of the Gin context. It returns
// the empty string when Middleware did not run for this request.
func Value(c *gin.Context) string {
	id, _ := c.Value(contextKey).(string)
	return id
}
