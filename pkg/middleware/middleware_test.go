package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/internal/usecases/authenticating"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware(t *testing.T) {
	auth := authenticating.NewService(&config.Config{SecretKey: "segredo"})
	valid, err := auth.IssueToken(domain.Claims{UserID: "u1", UserRoleID: RoleSeller}, time.Hour)
	require.NoError(t, err)
	expired, err := auth.IssueToken(domain.Claims{UserID: "u1"}, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		header  string
		enabled bool
		want    int
	}{
		{"sem cabeçalho", "/v1/leads", "", true, http.StatusUnauthorized},
		{"sem bearer", "/v1/leads", valid, true, http.StatusUnauthorized},
		{"token expirado", "/v1/leads", "Bearer " + expired, true, http.StatusUnauthorized},
		{"token válido", "/v1/leads", "Bearer " + valid, true, http.StatusOK},
		{"rota pública", "/healthcheck", "", true, http.StatusOK},
		{"auth desabilitada", "/v1/leads", "", false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(auth, tt.enabled)(okHandler)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	auth := authenticating.NewService(&config.Config{SecretKey: "segredo"})
	admin, err := auth.IssueToken(domain.Claims{UserID: "a", UserRoleID: RoleAdmin}, time.Hour)
	require.NoError(t, err)
	seller, err := auth.IssueToken(domain.Claims{UserID: "s", UserRoleID: RoleSeller}, time.Hour)
	require.NoError(t, err)

	chain := alice.New(AuthMiddleware(auth, true), AdminOnly()).Then(okHandler)

	for token, want := range map[string]int{admin: http.StatusOK, seller: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodPost, "/v1/sync/stage/run", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		chain.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code)
	}
}

func TestAdminOnly_WithoutClaims(t *testing.T) {
	rec := httptest.NewRecorder()

	AdminOnly()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"https://crm.example.com"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/v1/leads", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://crm.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/leads", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware_CorrelationID(t *testing.T) {
	log.SetupTestLogger()

	var seen string
	handler := LoggingMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = log.GetCorrelationID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set(log.CorrelationIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(log.CorrelationIDHeader))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	assert.NotEmpty(t, rec.Header().Get(log.CorrelationIDHeader))
}

func TestLogPanicMiddleware(t *testing.T) {
	log.SetupTestLogger()

	handler := LogPanicMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leads", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
