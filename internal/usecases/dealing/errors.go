package dealing

import "errors"

var (
	ErrTitleRequired = errors.New("opportunity title is required")
	ErrInvalidAmount = errors.New("opportunity amount must not be negative")
	ErrInvalidStage  = errors.New("opportunity cannot be created in a terminal stage")
)
