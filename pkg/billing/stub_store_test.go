package billing

import (
	"context"
	"fmt"
	"sort"
	"testing"
)

// stubStore is an in-memory Store used by the service tests. It enforces the
// same uniqueness rules the real store gets from database constraints.
type stubStore struct {
	users        map[string]User
	accounts     map[string]ClientAccount
	profiles     map[string]ReaderProfile
	sessions     map[string]ReadingSession
	gifts        map[string]VirtualGift
	transactions []Transaction
	giftRecords  []GiftTransaction
	ratings      map[string]SessionRating
	settlements  map[string]struct{}
	nextID       int

	getUserError           error
	getAccountError        error
	saveAccountError       error
	saveProfileError       error
	getSessionError        error
	saveSessionError       error
	insertTransactionError error
	recordSettlementError  error
}

func newStubStore(test *testing.T) *stubStore {
	test.Helper()
	return &stubStore{
		users:       make(map[string]User),
		accounts:    make(map[string]ClientAccount),
		profiles:    make(map[string]ReaderProfile),
		sessions:    make(map[string]ReadingSession),
		gifts:       make(map[string]VirtualGift),
		ratings:     make(map[string]SessionRating),
		settlements: make(map[string]struct{}),
	}
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	return fn(ctx, store)
}

func (store *stubStore) GetUser(_ context.Context, userID UserID) (User, error) {
	if store.getUserError != nil {
		return User{}, store.getUserError
	}
	user, exists := store.users[userID.String()]
	if !exists {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (store *stubStore) GetOrCreateClientAccount(_ context.Context, userID UserID) (ClientAccount, error) {
	account, exists := store.accounts[userID.String()]
	if !exists {
		account = ClientAccount{UserID: userID.String()}
		store.accounts[userID.String()] = account
	}
	return account, nil
}

func (store *stubStore) GetClientAccountForUpdate(_ context.Context, userID UserID) (ClientAccount, error) {
	if store.getAccountError != nil {
		return ClientAccount{}, store.getAccountError
	}
	account, exists := store.accounts[userID.String()]
	if !exists {
		return ClientAccount{}, ErrAccountNotFound
	}
	return account, nil
}

func (store *stubStore) SaveClientAccount(_ context.Context, account ClientAccount) error {
	if store.saveAccountError != nil {
		return store.saveAccountError
	}
	if _, exists := store.accounts[account.UserID]; !exists {
		return ErrAccountNotFound
	}
	store.accounts[account.UserID] = account
	return nil
}

func (store *stubStore) CreateReaderProfile(_ context.Context, input NewReaderProfile) (ReaderProfile, error) {
	if _, exists := store.profiles[input.UserID]; exists {
		return ReaderProfile{}, ErrProfileExists
	}
	profile := ReaderProfile{
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		ChatRate:    input.ChatRate,
		PhoneRate:   input.PhoneRate,
		VideoRate:   input.VideoRate,
	}
	store.profiles[input.UserID] = profile
	return profile, nil
}

func (store *stubStore) GetReaderProfile(_ context.Context, userID UserID) (ReaderProfile, error) {
	profile, exists := store.profiles[userID.String()]
	if !exists {
		return ReaderProfile{}, ErrProfileNotFound
	}
	return profile, nil
}

func (store *stubStore) GetReaderProfileForUpdate(ctx context.Context, userID UserID) (ReaderProfile, error) {
	return store.GetReaderProfile(ctx, userID)
}

func (store *stubStore) SaveReaderProfile(_ context.Context, profile ReaderProfile) error {
	if store.saveProfileError != nil {
		return store.saveProfileError
	}
	if _, exists := store.profiles[profile.UserID]; !exists {
		return ErrProfileNotFound
	}
	store.profiles[profile.UserID] = profile
	return nil
}

func (store *stubStore) SetReaderAvailability(_ context.Context, userID UserID, isOnline bool, isAvailable bool) error {
	profile, exists := store.profiles[userID.String()]
	if !exists {
		return ErrProfileNotFound
	}
	profile.IsOnline = isOnline
	profile.IsAvailable = isAvailable
	store.profiles[userID.String()] = profile
	return nil
}

func (store *stubStore) ListOnlineReaders(_ context.Context) ([]ReaderProfile, error) {
	var online []ReaderProfile
	for _, profile := range store.profiles {
		if profile.IsOnline && profile.IsAvailable {
			online = append(online, profile)
		}
	}
	sort.Slice(online, func(left, right int) bool {
		return online[left].DisplayName < online[right].DisplayName
	})
	return online, nil
}

func (store *stubStore) CreateSession(_ context.Context, input NewSession) (ReadingSession, error) {
	store.nextID++
	session := ReadingSession{
		ID:               fmt.Sprintf("session-%d", store.nextID),
		ClientID:         input.ClientID,
		ReaderID:         input.ReaderID,
		Type:             input.Type,
		Status:           input.Status,
		RatePerMinute:    input.RatePerMinute,
		StartedAtUnixUTC: input.StartedAtUnixUTC,
		CreatedAtUnixUTC: input.StartedAtUnixUTC,
	}
	store.sessions[session.ID] = session
	return session, nil
}

func (store *stubStore) GetSession(_ context.Context, sessionID SessionID) (ReadingSession, error) {
	if store.getSessionError != nil {
		return ReadingSession{}, store.getSessionError
	}
	session, exists := store.sessions[sessionID.String()]
	if !exists {
		return ReadingSession{}, ErrSessionNotFound
	}
	return session, nil
}

func (store *stubStore) GetSessionForUpdate(ctx context.Context, sessionID SessionID) (ReadingSession, error) {
	return store.GetSession(ctx, sessionID)
}

func (store *stubStore) SaveSession(_ context.Context, session ReadingSession) error {
	if store.saveSessionError != nil {
		return store.saveSessionError
	}
	if _, exists := store.sessions[session.ID]; !exists {
		return ErrSessionNotFound
	}
	store.sessions[session.ID] = session
	return nil
}

func (store *stubStore) GetGift(_ context.Context, giftID GiftID) (VirtualGift, error) {
	gift, exists := store.gifts[giftID.String()]
	if !exists {
		return VirtualGift{}, ErrGiftNotFound
	}
	return gift, nil
}

func (store *stubStore) ListGifts(_ context.Context) ([]VirtualGift, error) {
	var gifts []VirtualGift
	for _, gift := range store.gifts {
		gifts = append(gifts, gift)
	}
	sort.Slice(gifts, func(left, right int) bool {
		return gifts[left].Price.LessThan(gifts[right].Price)
	})
	return gifts, nil
}

func (store *stubStore) InsertGiftTransaction(_ context.Context, input NewGiftTransaction) (GiftTransaction, error) {
	store.nextID++
	record := GiftTransaction{
		ID:               fmt.Sprintf("gift-tx-%d", store.nextID),
		GiftID:           input.GiftID,
		SenderID:         input.SenderID,
		ReceiverID:       input.ReceiverID,
		StreamID:         input.StreamID,
		Amount:           input.Amount,
		CreatedAtUnixUTC: input.CreatedAtUnixUTC,
	}
	store.giftRecords = append(store.giftRecords, record)
	return record, nil
}

func (store *stubStore) InsertTransaction(_ context.Context, input NewTransaction) (Transaction, error) {
	if store.insertTransactionError != nil {
		return Transaction{}, store.insertTransactionError
	}
	store.nextID++
	record := Transaction{
		ID:               fmt.Sprintf("tx-%d", store.nextID),
		UserID:           input.UserID,
		Type:             input.Type,
		Status:           input.Status,
		Amount:           input.Amount,
		Description:      input.Description,
		MetadataJSON:     input.MetadataJSON,
		CreatedAtUnixUTC: input.CreatedAtUnixUTC,
	}
	store.transactions = append(store.transactions, record)
	return record, nil
}

func (store *stubStore) ListTransactions(_ context.Context, userID UserID, limit int) ([]Transaction, error) {
	var matched []Transaction
	for index := len(store.transactions) - 1; index >= 0 && len(matched) < limit; index-- {
		if store.transactions[index].UserID == userID.String() {
			matched = append(matched, store.transactions[index])
		}
	}
	return matched, nil
}

func (store *stubStore) RecordSettlement(_ context.Context, key IdempotencyKey, _ int64) error {
	if store.recordSettlementError != nil {
		return store.recordSettlementError
	}
	if _, exists := store.settlements[key.String()]; exists {
		return ErrDuplicateSettlement
	}
	store.settlements[key.String()] = struct{}{}
	return nil
}

func (store *stubStore) InsertSessionRating(_ context.Context, input NewSessionRating) (SessionRating, error) {
	if _, exists := store.ratings[input.SessionID]; exists {
		return SessionRating{}, ErrAlreadyRated
	}
	store.nextID++
	record := SessionRating{
		ID:               fmt.Sprintf("rating-%d", store.nextID),
		SessionID:        input.SessionID,
		ClientID:         input.ClientID,
		ReaderID:         input.ReaderID,
		Rating:           input.Rating,
		Review:           input.Review,
		CreatedAtUnixUTC: input.CreatedAtUnixUTC,
	}
	store.ratings[input.SessionID] = record
	return record, nil
}

const testNowUnixUTC int64 = 1_700_000_000

func mustNewService(test *testing.T, store Store) *Service {
	test.Helper()
	service, err := NewService(store, func() int64 { return testNowUnixUTC })
	if err != nil {
		test.Fatalf("new service: %v", err)
	}
	return service
}

func mustUserID(test *testing.T, raw string) UserID {
	test.Helper()
	userID, err := NewUserID(raw)
	if err != nil {
		test.Fatalf("user id %q: %v", raw, err)
	}
	return userID
}

func mustSessionID(test *testing.T, raw string) SessionID {
	test.Helper()
	sessionID, err := NewSessionID(raw)
	if err != nil {
		test.Fatalf("session id %q: %v", raw, err)
	}
	return sessionID
}

func mustGiftID(test *testing.T, raw string) GiftID {
	test.Helper()
	giftID, err := NewGiftID(raw)
	if err != nil {
		test.Fatalf("gift id %q: %v", raw, err)
	}
	return giftID
}

func mustIdempotencyKey(test *testing.T, raw string) IdempotencyKey {
	test.Helper()
	key, err := NewIdempotencyKey(raw)
	if err != nil {
		test.Fatalf("idempotency key %q: %v", raw, err)
	}
	return key
}

func mustMoney(test *testing.T, raw string) Money {
	test.Helper()
	amount, err := NewMoney(raw)
	if err != nil {
		test.Fatalf("money %q: %v", raw, err)
	}
	return amount
}

func mustMinutes(test *testing.T, raw string) Minutes {
	test.Helper()
	minutes, err := NewMinutes(raw)
	if err != nil {
		test.Fatalf("minutes %q: %v", raw, err)
	}
	return minutes
}

func mustRating(test *testing.T, raw int) Rating {
	test.Helper()
	rating, err := NewRating(raw)
	if err != nil {
		test.Fatalf("rating %d: %v", raw, err)
	}
	return rating
}

func (store *stubStore) addUser(test *testing.T, id string, role Role) {
	test.Helper()
	store.users[id] = User{ID: id, Email: id + "@example.test", Name: id, Role: role}
}

func (store *stubStore) addClient(test *testing.T, id string, balance string) {
	test.Helper()
	store.addUser(test, id, RoleClient)
	store.accounts[id] = ClientAccount{UserID: id, Balance: mustMoney(test, balance)}
}

func (store *stubStore) addReader(test *testing.T, id string, chatRate string, available bool) {
	test.Helper()
	store.addUser(test, id, RoleReader)
	store.profiles[id] = ReaderProfile{
		UserID:      id,
		DisplayName: "Reader " + id,
		IsOnline:    available,
		IsAvailable: available,
		ChatRate:    mustMoney(test, chatRate),
		PhoneRate:   mustMoney(test, chatRate),
		VideoRate:   mustMoney(test, chatRate),
	}
}

func (store *stubStore) addGift(test *testing.T, id string, name string, price string) {
	test.Helper()
	store.gifts[id] = VirtualGift{ID: id, Name: name, Price: mustMoney(test, price)}
}
