package middleware

import (
	"net/http"
	"slices"

	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/pkg/apiErrors"
	"github.com/vfg2006/crm-pipeline-api/pkg/log"
)

// Perfis emitidos pelo serviço de identidade
const (
	RoleAdmin      = 1
	RoleSupervisor = 2
	RoleSeller     = 3
)

// ClaimsFromContext devolve as claims gravadas pelo AuthMiddleware
func ClaimsFromContext(r *http.Request) (*domain.Claims, bool) {
	claims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}

// RequireRole libera a rota apenas para os perfis informados
func RequireRole(roles ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r)
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !slices.Contains(roles, claims.UserRoleID) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id":   claims.UserID,
					"user_role": claims.UserRoleID,
					"path":      r.URL.Path,
				}).Warn("Acesso negado")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly() func(http.Handler) http.Handler {
	return RequireRole(RoleAdmin)
}
