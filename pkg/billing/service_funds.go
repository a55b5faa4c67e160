package billing

import (
	"context"
	"fmt"
)

// AddFunds credits a client's prepaid balance after external payment capture
// has succeeded. The account is created lazily on first credit. The caller's
// key makes a retried deposit safe.
func (service *Service) AddFunds(ctx context.Context, userID UserID, amount Money, paymentMethodRef string, key IdempotencyKey) (Transaction, error) {
	var deposit Transaction
	operationError := service.store.WithTx(ctx, func(ctx context.Context, txStore Store) error {
		if !amount.Positive() {
			return fmt.Errorf("%w: deposit must be greater than zero", ErrInvalidMoney)
		}
		user, err := txStore.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := txStore.GetOrCreateClientAccount(ctx, userID); err != nil {
			return err
		}
		settlementKey, err := deriveSettlementKey(settlementScopeDeposit, key.String())
		if err != nil {
			return err
		}
		inserted, err := service.settle(ctx, txStore, settlement{
			key:          settlementKey,
			creditClient: &accountLeg{userID: userID, amount: amount},
			transactions: []NewTransaction{{
				UserID:           user.ID,
				Type:             TransactionDeposit,
				Status:           TransactionStatusCompleted,
				Amount:           amount,
				Description:      fmt.Sprintf("Deposit of $%s", amount),
				MetadataJSON:     fmt.Sprintf(`{"payment_method":%q}`, paymentMethodRef),
				CreatedAtUnixUTC: service.nowFn(),
			}},
		})
		if err != nil {
			return err
		}
		deposit = inserted[0]
		return nil
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationAddFunds,
		UserID:    userID.String(),
		Amount:    amount.String(),
		Error:     operationError,
	})
	if operationError != nil {
		return Transaction{}, operationError
	}
	return deposit, nil
}

// GetClientAccount returns the balance projection, creating the account lazily.
func (service *Service) GetClientAccount(ctx context.Context, userID UserID) (ClientAccount, error) {
	if _, err := service.store.GetUser(ctx, userID); err != nil {
		return ClientAccount{}, err
	}
	return service.store.GetOrCreateClientAccount(ctx, userID)
}

// ListTransactions returns a user's most recent transactions, newest first.
func (service *Service) ListTransactions(ctx context.Context, userID UserID, limit int) ([]Transaction, error) {
	return service.store.ListTransactions(ctx, userID, limit)
}
