package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"relaychat/tools/security"
)

func newAuthRouter() (*gin.Engine, security.Options) {
	gin.SetMode(gin.TestMode)
	opts := security.DefaultOptions([]byte("test-secret"))
	h := NewHandler(NewService(nil, opts), nil, opts)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, opts
}

func TestRegisterBadRequest(t *testing.T) {
	r, _ := newAuthRouter()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"empty body", `{}`},
		{"missing password", `{"username":"alice"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, w.Code)
		}
	}
}

func TestProfileRequiresToken(t *testing.T) {
	r, _ := newAuthRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestProfileReturnsIdentity(t *testing.T) {
	r, opts := newAuthRouter()

	token, _, err := security.Generate(opts, security.Identity{ID: "42", Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"username":"alice"`) || !strings.Contains(body, `"userId":"42"`) {
		t.Errorf("body = %s", body)
	}
}

func TestSearchRequiresTerm(t *testing.T) {
	r, opts := newAuthRouter()

	token, _, err := security.Generate(opts, security.Identity{ID: "42", Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/search", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
