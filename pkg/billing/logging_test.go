package billing

import (
	"context"
	"testing"
)

type recorderLogger struct {
	entries []OperationLog
}

func (logger *recorderLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.entries = append(logger.entries, entry)
}

func TestServiceLogsDepositOperation(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	store.addUser(test, "client-1", RoleClient)
	logger := &recorderLogger{}
	service, err := NewService(store, func() int64 { return testNowUnixUTC }, WithOperationLogger(logger))
	if err != nil {
		test.Fatalf("service init failed: %v", err)
	}

	if _, err := service.AddFunds(context.Background(), mustUserID(test, "client-1"), mustMoney(test, "25.00"), "", mustIdempotencyKey(test, "dep-1")); err != nil {
		test.Fatalf("add funds: %v", err)
	}
	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry.Operation != operationAddFunds || entry.UserID != "client-1" || entry.Amount != "25.00" {
		test.Fatalf("unexpected log entry: %+v", entry)
	}
	if entry.Error != nil || entry.Status != operationStatusOK {
		test.Fatalf("expected successful log entry, got %+v", entry)
	}
}

func TestServiceLogsErrorStatus(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	logger := &recorderLogger{}
	service, err := NewService(store, func() int64 { return testNowUnixUTC }, WithOperationLogger(logger))
	if err != nil {
		test.Fatalf("service init failed: %v", err)
	}

	if _, err := service.AddFunds(context.Background(), mustUserID(test, "ghost"), mustMoney(test, "25.00"), "", mustIdempotencyKey(test, "dep-1")); err == nil {
		test.Fatalf("expected error")
	}
	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	if logger.entries[0].Status != operationStatusError || logger.entries[0].Error == nil {
		test.Fatalf("expected error log entry, got %+v", logger.entries[0])
	}
}

func TestNewServiceRejectsNilDependencies(test *testing.T) {
	test.Parallel()
	if _, err := NewService(nil, func() int64 { return 0 }); err == nil {
		test.Fatal("expected error for nil store")
	}
	if _, err := NewService(newStubStore(test), nil); err == nil {
		test.Fatal("expected error for nil clock")
	}
}
