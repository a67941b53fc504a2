package errors

import (
	"fmt"
)

var (
	ErrNotFound          = fmt.Errorf("not found")
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrDuplicateNumber   = fmt.Errorf("duplicate number")
	ErrDuplicateCode     = fmt.Errorf("duplicate tracking code")
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
)
