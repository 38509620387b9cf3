package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/crm-pipeline-api/pkg/apiErrors"
)

func TestAddRoutes_MiddlewareOrder(t *testing.T) {
	var calls []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	rt := New(WithRoutes(Route{
		Path:   "/v1/boards/:board",
		Method: http.MethodGet,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "handler")
		}),
		Middlewares: []func(http.Handler) http.Handler{mark("primeiro"), mark("segundo")},
	}))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/boards/leads", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"primeiro", "segundo", "handler"}, calls)
}

func TestUnknownRoutes(t *testing.T) {
	rt := New(WithRoutes(Route{
		Path:    "/v1/leads",
		Method:  http.MethodGet,
		Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
	}))

	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   string
	}{
		{"rota inexistente", http.MethodGet, "/v1/contatos", http.StatusNotFound, apiErrors.ErrRouteNotFound},
		{"método não suportado", http.MethodPut, "/v1/leads", http.StatusMethodNotAllowed, apiErrors.ErrMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}
