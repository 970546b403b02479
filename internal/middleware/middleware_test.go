package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/bolivianotech/consulta-aulas-backend/internal/model"
	"github.com/bolivianotech/consulta-aulas-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorProbe(got *model.Actor) (*gin.Engine, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ActorContext())
	router.GET("/probe", func(c *gin.Context) {
		*got = ActorFrom(c)
		c.Status(http.StatusNoContent)
	})
	return router, httptest.NewRecorder()
}

func TestActorContextPrefersPanelHeaders(t *testing.T) {
	var got model.Actor
	router, w := actorProbe(&got)

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-Client-Id", "panel-7")
	req.Header.Set("X-User-Agent", "AdminPanel/2.1")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "panel-7", got.ClientID)
	assert.Equal(t, "AdminPanel/2.1", got.UserAgent)
}

func TestActorContextFallsBackToTransportUserAgent(t *testing.T) {
	var got model.Actor
	router, w := actorProbe(&got)

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	router.ServeHTTP(w, req)

	assert.Empty(t, got.ClientID)
	assert.Equal(t, "Mozilla/5.0", got.UserAgent)
}

func TestRateLimiterEnforcesBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(2, time.Minute)

	router := gin.New()
	router.POST("/upload", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/upload", nil)
		req.RemoteAddr = "10.1.2.3:40000"
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/upload", nil)
	req.RemoteAddr = "10.1.2.3:40000"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	// A different address keeps its own budget.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/upload", nil)
	req.RemoteAddr = "10.9.9.9:40000"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCacheHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/catalog", CacheControl(60), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/admin", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/catalog", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/admin", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestAccessLogWritesOneLinePerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	router := gin.New()
	router.Use(response.RequestIDMiddleware())
	router.Use(AccessLog(zerolog.New(&buf)))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping?x=1", nil)
	router.ServeHTTP(w, req)

	line := buf.String()
	assert.Contains(t, line, `"method":"GET"`)
	assert.Contains(t, line, `"path":"/ping?x=1"`)
	assert.Contains(t, line, `"status":200`)
	assert.Contains(t, line, `"request_id":`)

	buf.Reset()
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestBrotliCompressesLargeResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Brotli())

	large := strings.Repeat("aula magna 12B horario 07:00-09:15 ", 60)
	router.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, large) })
	router.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/big", nil)
	req.Header.Set("Accept-Encoding", "br")
	router.ServeHTTP(w, req)
	require.Equal(t, "br", w.Header().Get("Content-Encoding"))

	decoded, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, large, string(decoded))

	// Payloads under the minimum length pass through untouched.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	// Clients that do not accept brotli always get plain output.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/big", nil)
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, large, w.Body.String())
}
