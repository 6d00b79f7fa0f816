package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestGeneratesIDWhenMissing(t *testing.T) {
	r, seen := idRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(Header)
	require.NotEmpty(t, id)
	assert.Equal(t, id, *seen)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestKeepsCallerSuppliedID(t *testing.T) {
	r, seen := idRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(Header, "trace-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-42", w.Header().Get(Header))
	assert.Equal(t, "trace-42", *seen)
}
