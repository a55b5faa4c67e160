package billing

import (
	"context"
	"fmt"
	"strings"
)

// CreateReaderProfile registers a reader's rate schedule. The user must exist
// with the reader role and have no profile yet.
func (service *Service) CreateReaderProfile(ctx context.Context, input NewReaderProfile) (ReaderProfile, error) {
	var profile ReaderProfile
	operationError := service.store.WithTx(ctx, func(ctx context.Context, txStore Store) error {
		if strings.TrimSpace(input.DisplayName) == "" {
			return fmt.Errorf("%w: empty value", ErrInvalidDisplayName)
		}
		userID, err := NewUserID(input.UserID)
		if err != nil {
			return err
		}
		user, err := txStore.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if user.Role != RoleReader {
			return fmt.Errorf("%w: user %s is not a reader", ErrInvalidRole, user.ID)
		}
		profile, err = txStore.CreateReaderProfile(ctx, input)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationCreateProfile,
		UserID:    input.UserID,
		Error:     operationError,
	})
	if operationError != nil {
		return ReaderProfile{}, operationError
	}
	return profile, nil
}

// SetReaderAvailability flips the reader's online/available flags in a single
// row update, then returns the current profile.
func (service *Service) SetReaderAvailability(ctx context.Context, readerID UserID, isOnline bool, isAvailable bool) (ReaderProfile, error) {
	var profile ReaderProfile
	operationError := service.store.WithTx(ctx, func(ctx context.Context, txStore Store) error {
		if err := txStore.SetReaderAvailability(ctx, readerID, isOnline, isAvailable); err != nil {
			return err
		}
		var err error
		profile, err = txStore.GetReaderProfile(ctx, readerID)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationSetAvailability,
		UserID:    readerID.String(),
		Error:     operationError,
	})
	if operationError != nil {
		return ReaderProfile{}, operationError
	}
	return profile, nil
}

// GetReaderProfile returns a reader's profile.
func (service *Service) GetReaderProfile(ctx context.Context, readerID UserID) (ReaderProfile, error) {
	return service.store.GetReaderProfile(ctx, readerID)
}

// ListOnlineReaders returns readers currently online and available. This is a
// display projection; bounded staleness is acceptable.
func (service *Service) ListOnlineReaders(ctx context.Context) ([]ReaderProfile, error) {
	return service.store.ListOnlineReaders(ctx)
}
