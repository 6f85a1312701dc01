package service

import (
	"errors"
	"fmt"
)

// ErrValidation marks request input the services refuse to compute.
var ErrValidation = errors.New("invalid input")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
