package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de roteamento
	ErrRouteNotFound    = "RTE_001" // Rota inexistente
	ErrMethodNotAllowed = "RTE_002" // Método não suportado pela rota

	// Erros de quadro (kanban)
	ErrBoardNotFound       = "BRD_001" // Quadro inexistente
	ErrCardNotFound        = "BRD_002" // Card não está na coluna de origem
	ErrColumnNotFound      = "BRD_003" // Coluna inexistente
	ErrReasonRequired      = "BRD_004" // Motivo obrigatório para a etapa de destino
	ErrMovePending         = "BRD_005" // Card já possui movimentação pendente
	ErrPendingMoveNotFound = "BRD_006" // Movimentação pendente inexistente
	ErrSameColumn          = "BRD_007" // Origem e destino iguais
	ErrPendingMoveState    = "BRD_008" // Movimentação pendente em outro estado

	// Erros de leads
	ErrDuplicatePhone = "LEAD_001" // Telefone já cadastrado
	ErrDuplicateEmail = "LEAD_002" // Email já cadastrado

	// Erros do servidor
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrExternalService = "SRV_003" // Erro em serviço externo (webhook)
	ErrCommunication   = "SRV_004" // Erro de comunicação
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrRouteNotFound:         http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrBoardNotFound:         http.StatusNotFound,
	ErrCardNotFound:          http.StatusNotFound,
	ErrColumnNotFound:        http.StatusNotFound,
	ErrReasonRequired:        http.StatusUnprocessableEntity,
	ErrMovePending:           http.StatusConflict,
	ErrPendingMoveNotFound:   http.StatusNotFound,
	ErrSameColumn:            http.StatusBadRequest,
	ErrPendingMoveState:      http.StatusConflict,
	ErrDuplicatePhone:        http.StatusConflict,
	ErrDuplicateEmail:        http.StatusConflict,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrCommunication:         http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor retorna o status HTTP associado ao código de erro
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}
