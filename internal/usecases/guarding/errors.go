package guarding

import "errors"

var (
	ErrMovePending     = errors.New("card already has a pending move")
	ErrPendingNotFound = errors.New("pending move not found")
	ErrUnexpectedState = errors.New("pending move is not awaiting this action")
)
