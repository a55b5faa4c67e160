package billing

import (
	"errors"
	"testing"
)

const (
	operationName    = "store"
	subjectName      = "settlement"
	codeName         = "duplicate"
	baseErrorMessage = "base error"
)

func TestOperationErrorFormatting(test *testing.T) {
	test.Parallel()
	baseError := errors.New(baseErrorMessage)
	wrappedError := WrapError(operationName, subjectName, codeName, baseError)
	if wrappedError == nil {
		test.Fatalf("expected wrapped error")
	}
	expected := operationName + "." + subjectName + "." + codeName + ": " + baseErrorMessage
	if wrappedError.Error() != expected {
		test.Fatalf("expected %q, got %q", expected, wrappedError.Error())
	}
}

func TestWrapErrorNil(test *testing.T) {
	test.Parallel()
	if WrapError(operationName, subjectName, codeName, nil) != nil {
		test.Fatalf("expected nil wrapped error")
	}
}

func TestWrapErrorPreservesSentinel(test *testing.T) {
	test.Parallel()
	wrappedError := WrapError(operationName, subjectName, codeName, ErrDuplicateSettlement)
	if !errors.Is(wrappedError, ErrDuplicateSettlement) {
		test.Fatalf("expected errors.Is to see ErrDuplicateSettlement through the wrapper")
	}
	var operationError OperationError
	if !errors.As(wrappedError, &operationError) {
		test.Fatalf("expected OperationError")
	}
	if operationError.Operation() != operationName || operationError.Subject() != subjectName || operationError.Code() != codeName {
		test.Fatalf("unexpected segments: %+v", operationError)
	}
}
