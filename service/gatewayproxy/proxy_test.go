package gatewayproxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// closeNotifyRecorder adds the http.CloseNotifier method that
// httputil.ReverseProxy probes for and httptest.ResponseRecorder lacks.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func TestForwardStripsPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	srv, err := NewServer(upstream.URL, upstream.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	srv.RegisterRoutes(r)

	w := &closeNotifyRecorder{httptest.NewRecorder()}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if gotPath != "/login" {
		t.Errorf("upstream path = %q, want /login", gotPath)
	}
	body, _ := io.ReadAll(w.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, err := NewServer("http://localhost:3001", "http://localhost:3003", nil)
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	srv.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, err := NewServer("http://localhost:3001", "http://localhost:3003", nil)
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	srv.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/auth/login", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestLimiterPassesWithoutRedis(t *testing.T) {
	l := NewLimiter(nil, nil)
	if !l.Allow(context.Background(), "auth", "1.2.3.4") {
		t.Error("limiter without redis must pass requests")
	}
	if !l.Allow(context.Background(), "unknown-rule", "1.2.3.4") {
		t.Error("unknown rules must pass requests")
	}
}
