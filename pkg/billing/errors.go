package billing

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by the billing service.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("client account not found")
	ErrProfileNotFound     = errors.New("reader profile not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrGiftNotFound        = errors.New("gift not found")
	ErrInvalidRole         = errors.New("invalid role")
	ErrReaderNotAvailable  = errors.New("reader not available")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidTransition   = errors.New("invalid session transition")
	ErrSessionNotComplete  = errors.New("session not completed")
	ErrAlreadyRated        = errors.New("session already rated")
	ErrProfileExists       = errors.New("reader profile already exists")
	ErrDuplicateSettlement = errors.New("settlement already applied")

	ErrInvalidUserID         = errors.New("invalid user id")
	ErrInvalidSessionID      = errors.New("invalid session id")
	ErrInvalidGiftID         = errors.New("invalid gift id")
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	ErrInvalidMoney          = errors.New("invalid money amount")
	ErrInvalidMinutes        = errors.New("invalid duration minutes")
	ErrInvalidRating         = errors.New("invalid rating")
	ErrInvalidSessionType    = errors.New("invalid session type")
	ErrInvalidSessionStatus  = errors.New("invalid session status")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidDisplayName    = errors.New("invalid display name")
	ErrInvalidServiceConfig  = errors.New("invalid service config")
)

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
