package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tikitakatoe/internal/testutil"
)

func newRouter(mw ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(mw...)
	r.HandleFunc("/give-up/{game_id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"given_up"}`))
	})
	r.HandleFunc("/boom/{game_id}", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestLoggingUsesRouteTemplate(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	r := newRouter(Logging(logger))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/give-up/ABC123", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := logs.String()
	assert.Contains(t, out, `"route":"/give-up/{game_id}"`)
	assert.Contains(t, out, `"game_id":"ABC123"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"level":"INFO"`)
}

func TestLoggingHealthAtDebug(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	r := newRouter(Logging(logger))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, logs.String(), `"level":"DEBUG"`)
}

func TestRecoveryWritesResponseAndLogs(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	r := newRouter(Recovery(logger, func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}), Logging(logger))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom/G1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	out := logs.String()
	assert.Contains(t, out, "panic recovered")
	assert.Contains(t, out, `"route":"/boom/{game_id}"`)
	assert.Contains(t, out, "kaboom")
}

func TestCORSAllowedOrigin(t *testing.T) {
	h := CORS("http://localhost:3000, https://tikitaka.example")(newRouter())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://tikitaka.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://tikitaka.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	h := CORS("http://localhost:3000")(newRouter())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS("*")(newRouter())

	req := httptest.NewRequest(http.MethodOptions, "/submit-guess", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSDisabled(t *testing.T) {
	router := newRouter()
	h := CORS("")(router)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
