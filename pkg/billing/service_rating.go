package billing

import "context"

// RateSession records the single rating allowed for a completed session and
// folds it into the reader's running aggregate in the same transaction. The
// unique session constraint makes a retried call fail with ErrAlreadyRated
// instead of double-counting.
func (service *Service) RateSession(ctx context.Context, sessionID SessionID, rating Rating, review string) (SessionRating, error) {
	var recorded SessionRating
	operationError := service.store.WithTx(ctx, func(ctx context.Context, txStore Store) error {
		session, err := txStore.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.Status != SessionStatusCompleted {
			return ErrSessionNotComplete
		}
		recorded, err = txStore.InsertSessionRating(ctx, NewSessionRating{
			SessionID:        session.ID,
			ClientID:         session.ClientID,
			ReaderID:         session.ReaderID,
			Rating:           rating,
			Review:           review,
			CreatedAtUnixUTC: service.nowFn(),
		})
		if err != nil {
			return err
		}
		readerID, err := NewUserID(session.ReaderID)
		if err != nil {
			return err
		}
		profile, err := txStore.GetReaderProfileForUpdate(ctx, readerID)
		if err != nil {
			return err
		}
		profile.RatingPoints += int64(rating.Int())
		profile.TotalReviews++
		return txStore.SaveReaderProfile(ctx, profile)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationRateSession,
		SessionID: sessionID.String(),
		Error:     operationError,
	})
	if operationError != nil {
		return SessionRating{}, operationError
	}
	return recorded, nil
}
