package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/adminpanel/internal/auth"
	"github.com/geocoder89/adminpanel/internal/config"
	apphttp "github.com/geocoder89/adminpanel/internal/http"
	"github.com/geocoder89/adminpanel/internal/observability"
	"github.com/geocoder89/adminpanel/internal/repo/memory"
	"github.com/geocoder89/adminpanel/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const testSecret = "test-secret-key"

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		DBDriver:           config.DriverMemory,
		JWTSecret:          testSecret,
		TokenTTL:           auth.DefaultTTL,
		CORSAllowedOrigins: []string{"*"},
		MaxBodyBytes:       1 << 20,
		ServiceName:        "adminpanel-test",
	}
}

type testApp struct {
	router   *gin.Engine
	store    *memory.Store
	issuer   *session.Issuer
	gatherer prometheus.Gatherer
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := testConfig()
	store := memory.NewStore()
	issuer := session.NewIssuer(store, auth.NewManager(cfg.JWTSecret, cfg.TokenTTL))

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(logger, cfg, apphttp.Deps{
		Sessions: issuer,
		Verifier: issuer,
		Users:    store,
		Ping:     store.Ping,
		Prom:     observability.NewProm(reg),
		Gatherer: reg,
	})

	return &testApp{router: router, store: store, issuer: issuer, gatherer: reg}
}

// doRequest runs a request through the router. token may be empty.
func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func doRequestWithContentType(router http.Handler, method, path, body, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", contentType)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

type apiErrorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func registerAndLogin(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()

	body := `{"email":"` + email + `","password":"` + password + `"}`

	w := doRequest(router, http.MethodPost, "/api/auth/register", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("register got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/api/auth/login", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	mustReadJSON(t, w, &resp)

	if resp.Token == "" {
		t.Fatalf("login returned an empty token")
	}

	return resp.Token
}

// expiredToken signs a token for adminID that expired an hour ago.
func expiredToken(t *testing.T, adminID int64) string {
	t.Helper()

	past := time.Now().Add(-2 * time.Hour)
	m := auth.NewManager(testSecret, time.Hour, auth.WithClock(func() time.Time { return past }))

	token, err := m.Issue(adminID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}
