package domain

import (
	"errors"
	"fmt"
)

// ArithmeticError is the single error kind raised by Number.
// Every failure (invalid expression, division by zero, negative square root,
// invalid split) is reported through it with a descriptive message.
type ArithmeticError struct {
	Message string
}

func (e *ArithmeticError) Error() string {
	return e.Message
}

func newArithmeticError(format string, args ...interface{}) *ArithmeticError {
	return &ArithmeticError{Message: fmt.Sprintf(format, args...)}
}

// IsArithmeticError reports whether err (or any error it wraps) is an ArithmeticError
func IsArithmeticError(err error) bool {
	var arithErr *ArithmeticError
	return errors.As(err, &arithErr)
}
