package billing

import (
	"context"
	"fmt"
)

// SendGift settles a one-shot gift purchase: the sender is debited the gift's
// snapshotted price, the receiving reader is credited the split share, and the
// platform's retained share is ledgered as a platform_fee transaction. The
// caller's key makes a retried send safe.
func (service *Service) SendGift(ctx context.Context, giftID GiftID, senderID UserID, receiverID UserID, streamID string, key IdempotencyKey) (GiftTransaction, error) {
	var giftTransaction GiftTransaction
	operationError := service.store.WithTx(ctx, func(ctx context.Context, txStore Store) error {
		gift, err := txStore.GetGift(ctx, giftID)
		if err != nil {
			return err
		}
		sender, err := txStore.GetClientAccountForUpdate(ctx, senderID)
		if err != nil {
			return err
		}
		if sender.Balance.LessThan(gift.Price) {
			return ErrInsufficientFunds
		}
		if _, err := txStore.GetReaderProfile(ctx, receiverID); err != nil {
			return err
		}
		settlementKey, err := deriveSettlementKey(settlementScopeGift, key.String())
		if err != nil {
			return err
		}
		receiverShare := gift.Price.MulFactor(giftSplitFactor)
		platformShare := gift.Price.MulFactor(giftPlatformFactor)
		nowUnixUTC := service.nowFn()
		_, err = service.settle(ctx, txStore, settlement{
			key:          settlementKey,
			debitClient:  &accountLeg{userID: senderID, amount: gift.Price},
			creditReader: &accountLeg{userID: receiverID, amount: receiverShare},
			transactions: []NewTransaction{
				{
					UserID:           senderID.String(),
					Type:             TransactionGiftPurchase,
					Status:           TransactionStatusCompleted,
					Amount:           gift.Price,
					Description:      fmt.Sprintf("Gift purchase: %s", gift.Name),
					CreatedAtUnixUTC: nowUnixUTC,
				},
				{
					UserID:           senderID.String(),
					Type:             TransactionPlatformFee,
					Status:           TransactionStatusCompleted,
					Amount:           platformShare,
					Description:      fmt.Sprintf("Platform share of gift: %s", gift.Name),
					CreatedAtUnixUTC: nowUnixUTC,
				},
			},
		})
		if err != nil {
			return err
		}
		giftTransaction, err = txStore.InsertGiftTransaction(ctx, NewGiftTransaction{
			GiftID:           gift.ID,
			SenderID:         senderID.String(),
			ReceiverID:       receiverID.String(),
			StreamID:         streamID,
			Amount:           gift.Price,
			CreatedAtUnixUTC: nowUnixUTC,
		})
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationSendGift,
		UserID:    senderID.String(),
		Error:     operationError,
	})
	if operationError != nil {
		return GiftTransaction{}, operationError
	}
	return giftTransaction, nil
}

// ListGifts returns the purchasable gift catalog.
func (service *Service) ListGifts(ctx context.Context) ([]VirtualGift, error) {
	return service.store.ListGifts(ctx)
}
