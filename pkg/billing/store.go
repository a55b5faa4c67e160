package billing

import "context"

// NewSession carries the fields the billing engine fixes at session creation.
type NewSession struct {
	ClientID         string
	ReaderID         string
	Type             SessionType
	RatePerMinute    Money
	Status           SessionStatus
	StartedAtUnixUTC int64
}

// NewTransaction carries the fields of a ledger transaction to append.
type NewTransaction struct {
	UserID           string
	Type             TransactionType
	Status           TransactionStatus
	Amount           Money
	Description      string
	MetadataJSON     string
	CreatedAtUnixUTC int64
}

// NewGiftTransaction carries the fields of a gift send to record.
type NewGiftTransaction struct {
	GiftID           string
	SenderID         string
	ReceiverID       string
	StreamID         string
	Amount           Money
	CreatedAtUnixUTC int64
}

// NewSessionRating carries the fields of a session rating to record.
type NewSessionRating struct {
	SessionID        string
	ClientID         string
	ReaderID         string
	Rating           Rating
	Review           string
	CreatedAtUnixUTC int64
}

// NewReaderProfile carries the fields fixed when a reader profile is created.
type NewReaderProfile struct {
	UserID      string
	DisplayName string
	ChatRate    Money
	PhoneRate   Money
	VideoRate   Money
}

// Store is the persistence contract used by Service. Reads suffixed ForUpdate
// must lock the row for the remainder of the surrounding transaction so two
// concurrent settlements touching the same account never interleave.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error

	GetUser(ctx context.Context, userID UserID) (User, error)

	GetOrCreateClientAccount(ctx context.Context, userID UserID) (ClientAccount, error)
	GetClientAccountForUpdate(ctx context.Context, userID UserID) (ClientAccount, error)
	SaveClientAccount(ctx context.Context, account ClientAccount) error

	CreateReaderProfile(ctx context.Context, profile NewReaderProfile) (ReaderProfile, error)
	GetReaderProfile(ctx context.Context, userID UserID) (ReaderProfile, error)
	GetReaderProfileForUpdate(ctx context.Context, userID UserID) (ReaderProfile, error)
	SaveReaderProfile(ctx context.Context, profile ReaderProfile) error
	SetReaderAvailability(ctx context.Context, userID UserID, isOnline bool, isAvailable bool) error
	ListOnlineReaders(ctx context.Context) ([]ReaderProfile, error)

	CreateSession(ctx context.Context, session NewSession) (ReadingSession, error)
	GetSession(ctx context.Context, sessionID SessionID) (ReadingSession, error)
	GetSessionForUpdate(ctx context.Context, sessionID SessionID) (ReadingSession, error)
	SaveSession(ctx context.Context, session ReadingSession) error

	GetGift(ctx context.Context, giftID GiftID) (VirtualGift, error)
	ListGifts(ctx context.Context) ([]VirtualGift, error)
	InsertGiftTransaction(ctx context.Context, gift NewGiftTransaction) (GiftTransaction, error)

	InsertTransaction(ctx context.Context, transaction NewTransaction) (Transaction, error)
	ListTransactions(ctx context.Context, userID UserID, limit int) ([]Transaction, error)

	// RecordSettlement claims an idempotency key inside the current
	// transaction; a replay fails with ErrDuplicateSettlement.
	RecordSettlement(ctx context.Context, key IdempotencyKey, appliedAtUnixUTC int64) error

	InsertSessionRating(ctx context.Context, rating NewSessionRating) (SessionRating, error)
}
