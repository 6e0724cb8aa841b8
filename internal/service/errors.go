package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request that is missing or has malformed fields
	ErrValidation = errors.New("validation failed")

	ErrMissingItemFields  = fmt.Errorf("%w: name and type are required", ErrValidation)
	ErrMissingOrderFields = fmt.Errorf("%w: name, menu, quantity and type are required", ErrValidation)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrMissingStatus      = fmt.Errorf("%w: status is required", ErrValidation)
)
