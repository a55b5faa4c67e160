package billing

import (
	"context"
	"fmt"
)

// Service contains the billing domain logic over a Store.
type Service struct {
	store  Store
	nowFn  func() int64
	logger OperationLogger
}

// NewService wires a Service.
func NewService(store Store, now func() int64, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// settlement is the atomic unit applied by settle: at most one client debit,
// one client credit, one reader credit, plus the transaction records that
// document the movement. Either everything applies or nothing does.
type settlement struct {
	key          IdempotencyKey
	debitClient  *accountLeg
	creditClient *accountLeg
	creditReader *accountLeg
	transactions []NewTransaction
}

type accountLeg struct {
	userID UserID
	amount Money
}

// settle applies a settlement inside an already-open transaction. The
// idempotency key is claimed first so a replayed call fails before any
// balance is touched; every account read locks its row for the remainder
// of the transaction.
func (service *Service) settle(ctx context.Context, txStore Store, unit settlement) ([]Transaction, error) {
	if err := txStore.RecordSettlement(ctx, unit.key, service.nowFn()); err != nil {
		return nil, err
	}
	if unit.debitClient != nil {
		account, err := txStore.GetClientAccountForUpdate(ctx, unit.debitClient.userID)
		if err != nil {
			return nil, err
		}
		remaining, err := account.Balance.Sub(unit.debitClient.amount)
		if err != nil {
			return nil, err
		}
		account.Balance = remaining
		account.TotalSpent = account.TotalSpent.Add(unit.debitClient.amount)
		if err := txStore.SaveClientAccount(ctx, account); err != nil {
			return nil, err
		}
	}
	if unit.creditClient != nil {
		account, err := txStore.GetClientAccountForUpdate(ctx, unit.creditClient.userID)
		if err != nil {
			return nil, err
		}
		account.Balance = account.Balance.Add(unit.creditClient.amount)
		if err := txStore.SaveClientAccount(ctx, account); err != nil {
			return nil, err
		}
	}
	if unit.creditReader != nil {
		profile, err := txStore.GetReaderProfileForUpdate(ctx, unit.creditReader.userID)
		if err != nil {
			return nil, err
		}
		profile.TotalEarnings = profile.TotalEarnings.Add(unit.creditReader.amount)
		profile.PendingPayout = profile.PendingPayout.Add(unit.creditReader.amount)
		if err := txStore.SaveReaderProfile(ctx, profile); err != nil {
			return nil, err
		}
	}
	inserted := make([]Transaction, 0, len(unit.transactions))
	for _, transaction := range unit.transactions {
		record, err := txStore.InsertTransaction(ctx, transaction)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, record)
	}
	return inserted, nil
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

func deriveSettlementKey(scope string, parts ...string) (IdempotencyKey, error) {
	combined := scope
	for _, part := range parts {
		combined += settlementKeyDelimiter + part
	}
	return NewIdempotencyKey(combined)
}
