package pipeline

import "errors"

// Movimentações rejeitadas devolvem o quadro anterior intacto junto com um
// destes erros.
var (
	ErrSameColumn      = errors.New("source and destination columns are the same")
	ErrCardNotFound    = errors.New("card not found in source column")
	ErrColumnNotFound  = errors.New("column not found")
	ErrReasonRequired  = errors.New("reason is required for terminal-negative stage")
	ErrDuplicateColumn = errors.New("duplicate column id or title")
	ErrDuplicateCard   = errors.New("duplicate card id")
	ErrIdentityChanged = errors.New("card id cannot change")
	ErrEmptyCardID     = errors.New("card id is required")
)
