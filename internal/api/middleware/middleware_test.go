package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipecheck/internal/core/config"
	"pipecheck/internal/shared/observability"
	"pipecheck/internal/shared/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func boolPtr(b bool) *bool { return &b }

func newPolicy(t *testing.T, origins ...string) *CORSPolicy {
	t.Helper()
	p, err := NewCORSPolicy(config.CORS{AllowOrigins: origins, MaxAge: 10 * time.Minute})
	require.NoError(t, err)
	return p
}

func corsRouter(p *CORSPolicy) *gin.Engine {
	r := gin.New()
	r.Use(CORS(p))
	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"Ping": "Pong"}) })
	r.POST("/pipelines/parse", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	return r
}

func TestCORS_AllowedOriginSimpleRequest(t *testing.T) {
	r := corsRouter(newPolicy(t, "http://localhost:3000"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Values("Vary"), "Origin")
}

func TestCORS_DisallowedOriginSimpleRequest(t *testing.T) {
	r := corsRouter(newPolicy(t, "http://localhost:3000"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_NoOriginHeader(t *testing.T) {
	r := corsRouter(newPolicy(t, "http://localhost:3000"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := corsRouter(newPolicy(t, "http://localhost:3000"))

	req := httptest.NewRequest(http.MethodOptions, "/pipelines/parse", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-custom")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, allowedMethods, w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "content-type,x-custom", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	r := corsRouter(newPolicy(t, "http://localhost:3000"))

	req := httptest.NewRequest(http.MethodOptions, "/pipelines/parse", nil)
	req.Header.Set("Origin", "http://localhost:3001")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Disallowed CORS origin", w.Body.String())
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPolicy_GlobAndUpdate(t *testing.T) {
	p := newPolicy(t, "http://localhost:*", "https://*.example.com/")

	assert.True(t, p.Allowed("http://localhost:5173"))
	assert.True(t, p.Allowed("https://app.example.com"))
	assert.False(t, p.Allowed("https://example.org"))
	assert.False(t, p.Allowed(""))
	assert.Equal(t, []string{"http://localhost:*", "https://*.example.com"}, p.Origins())

	require.NoError(t, p.Update(config.CORS{AllowOrigins: []string{"https://prod.example.net"}}))
	assert.False(t, p.Allowed("http://localhost:5173"))
	assert.True(t, p.Allowed("https://prod.example.net"))

	require.Error(t, p.Update(config.CORS{AllowOrigins: []string{"http://[bad"}}))
	assert.True(t, p.Allowed("https://prod.example.net"), "failed update keeps previous policy")
}

func TestCORSPolicy_Wildcard(t *testing.T) {
	p := newPolicy(t, "*")
	assert.True(t, p.Allowed("http://anything.test"))
}

func TestCORS_CredentialsDisabled(t *testing.T) {
	p, err := NewCORSPolicy(config.CORS{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowCredentials: boolPtr(false),
	})
	require.NoError(t, err)
	r := corsRouter(p)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, observability.RequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(observability.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(observability.RequestIDHeader, "client-id-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-id-42", w.Header().Get(observability.RequestIDHeader))
	assert.Equal(t, "client-id-42", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(observability.RequestIDHeader, "has space")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "has space", w.Header().Get(observability.RequestIDHeader))
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	reg := util.NewLimiterRegistry(0.5, 2, time.Minute)
	defer reg.Close()

	r := gin.New()
	r.Use(RateLimit(reg, 0.5))
	r.POST("/pipelines/parse", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/pipelines/parse", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		last = httptest.NewRecorder()
		r.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"detail": "rate limit exceeded"}`, last.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/pipelines/parse", nil)
	req.RemoteAddr = "192.0.2.11:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "other clients keep their own bucket")
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/echo", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if assert.ErrorAs(t, err, &maxErr) {
				AbortWithError(c, TooLarge(maxErr.Limit))
			}
			return
		}
		c.Data(http.StatusOK, "text/plain", data)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds 16 bytes")

	// Unknown length: caught while reading.
	req := httptest.NewRequest(http.MethodPost, "/echo", io.MultiReader(strings.NewReader(strings.Repeat("y", 64))))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRecovery_ReturnsJSON500(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	r := gin.New()
	r.Use(Recovery(logger), RequestID())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail": "Internal Server Error"}`, w.Body.String())
	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "kaboom")
}

func TestAccessLog_LevelsAndRoute(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := logs.String()
	assert.Contains(t, out, "level=INFO msg=\"http request\" method=GET path=/ok status=200")
	assert.Contains(t, out, "level=WARN msg=\"http request\" method=GET path=/missing status=404")
	assert.Contains(t, out, "request_id=")
}
