package billing

import (
	"context"
	"fmt"
)

// CreateSession opens a pending reading session and locks the reader's
// current per-minute rate into it. Later rate edits on the profile never
// reprice a session created before them.
func (service *Service) CreateSession(ctx context.Context, clientID UserID, readerID UserID, sessionType SessionType) (ReadingSession, error) {
	var session ReadingSession
	operationError := service.store.WithTx(ctx, func(ctx context.Context, txStore Store) error {
		client, err := txStore.GetUser(ctx, clientID)
		if err != nil {
			return err
		}
		if client.Role != RoleClient {
			return fmt.Errorf("%w: user %s is not a client", ErrInvalidRole, clientID.String())
		}
		reader, err := txStore.GetUser(ctx, readerID)
		if err != nil {
			return err
		}
		if reader.Role != RoleReader {
			return fmt.Errorf("%w: user %s is not a reader", ErrInvalidRole, readerID.String())
		}
		profile, err := txStore.GetReaderProfile(ctx, readerID)
		if err != nil {
			return err
		}
		if !profile.IsAvailable {
			return ErrReaderNotAvailable
		}
		rate, err := profile.RateFor(sessionType)
		if err != nil {
			return err
		}
		session, err = txStore.CreateSession(ctx, NewSession{
			ClientID:         client.ID,
			ReaderID:         reader.ID,
			Type:             sessionType,
			RatePerMinute:    rate,
			Status:           SessionStatusPending,
			StartedAtUnixUTC: service.nowFn(),
		})
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationCreateSession,
		UserID:    clientID.String(),
		SessionID: session.ID,
		Error:     operationError,
	})
	if operationError != nil {
		return ReadingSession{}, operationError
	}
	return session, nil
}

// TransitionSession drives the session state machine. Completion settles the
// session cost against the client balance and reader earnings as one atomic
// unit keyed on (session, completed) so a retried call never bills twice.
// Cancelling an already-cancelled session is a no-op.
func (service *Service) TransitionSession(ctx context.Context, sessionID SessionID, target SessionStatus, duration *Minutes, explicitCost *Money) (ReadingSession, error) {
	var session ReadingSession
	operationError := service.store.WithTx(ctx, func(ctx context.Context, txStore Store) error {
		current, err := txStore.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		switch target {
		case SessionStatusActive:
			return service.activateSession(ctx, txStore, current, &session)
		case SessionStatusCompleted:
			return service.completeSession(ctx, txStore, current, duration, explicitCost, &session)
		case SessionStatusCancelled:
			return service.cancelSession(ctx, txStore, current, &session)
		}
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationTransitionSession,
		SessionID: sessionID.String(),
		Error:     operationError,
	})
	if operationError != nil {
		return ReadingSession{}, operationError
	}
	return session, nil
}

func (service *Service) activateSession(ctx context.Context, txStore Store, current ReadingSession, out *ReadingSession) error {
	if current.Status != SessionStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, SessionStatusActive)
	}
	current.Status = SessionStatusActive
	if err := txStore.SaveSession(ctx, current); err != nil {
		return err
	}
	*out = current
	return nil
}

func (service *Service) completeSession(ctx context.Context, txStore Store, current ReadingSession, duration *Minutes, explicitCost *Money, out *ReadingSession) error {
	if current.Status != SessionStatusPending && current.Status != SessionStatusActive {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, SessionStatusCompleted)
	}
	var cost Money
	switch {
	case explicitCost != nil:
		cost = *explicitCost
	case duration != nil:
		cost = current.RatePerMinute.MulMinutes(*duration)
	default:
		return fmt.Errorf("%w: completion requires duration_minutes or total_cost", ErrInvalidArgument)
	}
	if cost.Positive() {
		clientID, err := NewUserID(current.ClientID)
		if err != nil {
			return err
		}
		readerID, err := NewUserID(current.ReaderID)
		if err != nil {
			return err
		}
		settlementKey, err := deriveSettlementKey(settlementScopeSession, current.ID, settlementSuffixCompleted)
		if err != nil {
			return err
		}
		_, err = service.settle(ctx, txStore, settlement{
			key:          settlementKey,
			debitClient:  &accountLeg{userID: clientID, amount: cost},
			creditReader: &accountLeg{userID: readerID, amount: cost},
			transactions: []NewTransaction{{
				UserID:           current.ClientID,
				Type:             TransactionReadingPayment,
				Status:           TransactionStatusCompleted,
				Amount:           cost,
				Description:      fmt.Sprintf("Payment for %s reading session", current.Type),
				CreatedAtUnixUTC: service.nowFn(),
			}},
		})
		if err != nil {
			return err
		}
	}
	current.Status = SessionStatusCompleted
	current.DurationMinutes = duration
	current.TotalCost = &cost
	current.EndedAtUnixUTC = service.nowFn()
	if err := txStore.SaveSession(ctx, current); err != nil {
		return err
	}
	*out = current
	return nil
}

func (service *Service) cancelSession(ctx context.Context, txStore Store, current ReadingSession, out *ReadingSession) error {
	if current.Status == SessionStatusCancelled {
		*out = current
		return nil
	}
	if current.Status == SessionStatusCompleted {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, SessionStatusCancelled)
	}
	current.Status = SessionStatusCancelled
	if err := txStore.SaveSession(ctx, current); err != nil {
		return err
	}
	*out = current
	return nil
}

// GetSession returns a session by id.
func (service *Service) GetSession(ctx context.Context, sessionID SessionID) (ReadingSession, error) {
	return service.store.GetSession(ctx, sessionID)
}
