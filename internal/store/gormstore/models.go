package gormstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents the users table.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"not null;uniqueIndex:uniq_users_email"`
	Name      string    `gorm:"not null"`
	Role      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

func (user *User) BeforeCreate(tx *gorm.DB) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return nil
}

// ClientAccount mirrors the client_accounts table. One row per client user.
type ClientAccount struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	UserID     string          `gorm:"type:uuid;not null;uniqueIndex:uniq_client_accounts_user"`
	Balance    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalSpent decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

func (ClientAccount) TableName() string { return "client_accounts" }

func (account *ClientAccount) BeforeCreate(tx *gorm.DB) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	return nil
}

// ReaderProfile mirrors the reader_profiles table. The published rating is
// derived from rating_points/total_reviews at read time.
type ReaderProfile struct {
	ID                 string          `gorm:"type:uuid;primaryKey"`
	UserID             string          `gorm:"type:uuid;not null;uniqueIndex:uniq_reader_profiles_user"`
	DisplayName        string          `gorm:"not null"`
	RatingPoints       int64           `gorm:"not null;default:0"`
	TotalReviews       int64           `gorm:"not null;default:0"`
	IsOnline           bool            `gorm:"not null;default:false"`
	IsAvailable        bool            `gorm:"not null;default:false"`
	ChatRatePerMinute  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PhoneRatePerMinute decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	VideoRatePerMinute decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalEarnings      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PendingPayout      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

func (ReaderProfile) TableName() string { return "reader_profiles" }

func (profile *ReaderProfile) BeforeCreate(tx *gorm.DB) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	return nil
}

// ReadingSession mirrors the reading_sessions table.
type ReadingSession struct {
	ID              string           `gorm:"type:uuid;primaryKey"`
	ClientID        string           `gorm:"type:uuid;not null;index:idx_sessions_client_created,priority:1"`
	ReaderID        string           `gorm:"type:uuid;not null;index:idx_sessions_reader_created,priority:1"`
	SessionType     string           `gorm:"not null"`
	Status          string           `gorm:"not null"`
	RatePerMinute   decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	DurationMinutes *decimal.Decimal `gorm:"type:decimal(8,2)"`
	TotalCost       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	StartedAt       time.Time        `gorm:"not null"`
	EndedAt         *time.Time       `gorm:""`
	CreatedAt       time.Time        `gorm:"not null;index:idx_sessions_client_created,priority:2;index:idx_sessions_reader_created,priority:2"`
}

func (ReadingSession) TableName() string { return "reading_sessions" }

func (session *ReadingSession) BeforeCreate(tx *gorm.DB) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	return nil
}

// Transaction mirrors the append-only transactions table.
type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	UserID      string          `gorm:"type:uuid;not null;index:idx_transactions_user_created,priority:1"`
	Type        string          `gorm:"not null"`
	Status      string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"not null"`
	Metadata    datatypes.JSON  `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null;index:idx_transactions_user_created,priority:2"`
}

func (Transaction) TableName() string { return "transactions" }

func (transaction *Transaction) BeforeCreate(tx *gorm.DB) error {
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	return nil
}

// VirtualGift mirrors the virtual_gifts catalog table.
type VirtualGift struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null"`
	ImageURL  string          `gorm:""`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (VirtualGift) TableName() string { return "virtual_gifts" }

func (gift *VirtualGift) BeforeCreate(tx *gorm.DB) error {
	if gift.ID == "" {
		gift.ID = uuid.NewString()
	}
	return nil
}

// GiftTransaction mirrors the gift_transactions table.
type GiftTransaction struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	GiftID     string          `gorm:"type:uuid;not null;index"`
	SenderID   string          `gorm:"type:uuid;not null;index"`
	ReceiverID string          `gorm:"type:uuid;not null;index"`
	StreamID   *string         `gorm:""`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

func (GiftTransaction) TableName() string { return "gift_transactions" }

func (gift *GiftTransaction) BeforeCreate(tx *gorm.DB) error {
	if gift.ID == "" {
		gift.ID = uuid.NewString()
	}
	return nil
}

// SessionRating mirrors the session_ratings table. The unique session index
// enforces at most one rating per session.
type SessionRating struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	SessionID string    `gorm:"type:uuid;not null;uniqueIndex:uniq_session_ratings_session"`
	ClientID  string    `gorm:"type:uuid;not null;index"`
	ReaderID  string    `gorm:"type:uuid;not null;index"`
	Rating    int       `gorm:"not null"`
	Review    *string   `gorm:""`
	CreatedAt time.Time `gorm:"not null"`
}

func (SessionRating) TableName() string { return "session_ratings" }

func (rating *SessionRating) BeforeCreate(tx *gorm.DB) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	return nil
}

// Settlement claims one idempotency key per money movement.
type Settlement struct {
	SettlementKey string    `gorm:"primaryKey"`
	AppliedAt     time.Time `gorm:"not null"`
}

func (Settlement) TableName() string { return "settlements" }

// Models lists every table for schema migration.
func Models() []any {
	return []any{
		&User{},
		&ClientAccount{},
		&ReaderProfile{},
		&ReadingSession{},
		&Transaction{},
		&VirtualGift{},
		&GiftTransaction{},
		&SessionRating{},
		&Settlement{},
	}
}
