package leading

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de leads
var (
	// Erros de validação
	ErrNameRequired  = errors.New("lead name is required")
	ErrPhoneRequired = errors.New("lead phone is required")
	ErrInvalidEmail  = errors.New("invalid lead email")

	// Erros de unicidade
	ErrDuplicatePhone = errors.New("lead phone already registered")
	ErrDuplicateEmail = errors.New("lead email already registered")

	ErrGenerateID = errors.New("error generating lead id")
)

// LeadError é um erro com contexto adicional para leads
type LeadError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	LeadID  string // Lead em conflito (quando aplicável)
	Details string // Detalhes adicionais
}

func (e *LeadError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *LeadError) Unwrap() error {
	return e.Err
}

func NewLeadError(err error, code string, details string) *LeadError {
	return &LeadError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewLeadErrorWithID(err error, code string, leadID string, details string) *LeadError {
	return &LeadError{
		Err:     err,
		Code:    code,
		LeadID:  leadID,
		Details: details,
	}
}
