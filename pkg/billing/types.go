package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale is the fixed number of decimal places carried by every amount.
const moneyScale = 2

// Money is a non-negative fixed-point amount with two decimal places.
type Money struct {
	value decimal.Decimal
}

// NewMoney parses a decimal string into Money, rejecting negative values.
func NewMoney(raw string) (Money, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Money{}, fmt.Errorf("%w: empty value", ErrInvalidMoney)
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidMoney, err)
	}
	return NewMoneyFromDecimal(parsed)
}

// NewMoneyFromDecimal normalizes a decimal to two places, rejecting negative values.
func NewMoneyFromDecimal(value decimal.Decimal) (Money, error) {
	if value.IsNegative() {
		return Money{}, fmt.Errorf("%w: must not be negative", ErrInvalidMoney)
	}
	return Money{value: value.Round(moneyScale)}, nil
}

// Zero reports whether the amount is exactly zero.
func (money Money) Zero() bool {
	return money.value.IsZero()
}

// Positive reports whether the amount is strictly greater than zero.
func (money Money) Positive() bool {
	return money.value.IsPositive()
}

// LessThan reports whether the amount is strictly smaller than other.
func (money Money) LessThan(other Money) bool {
	return money.value.LessThan(other.value)
}

// Equal reports whether two amounts are numerically equal.
func (money Money) Equal(other Money) bool {
	return money.value.Equal(other.value)
}

// Add returns the sum of two amounts.
func (money Money) Add(other Money) Money {
	return Money{value: money.value.Add(other.value)}
}

// Sub returns the difference, failing when the result would be negative.
func (money Money) Sub(other Money) (Money, error) {
	result := money.value.Sub(other.value)
	if result.IsNegative() {
		return Money{}, ErrInsufficientFunds
	}
	return Money{value: result}, nil
}

// MulMinutes multiplies a per-minute rate by a duration, rounded to two places.
func (money Money) MulMinutes(duration Minutes) Money {
	return Money{value: money.value.Mul(duration.value).Round(moneyScale)}
}

// MulFactor applies a split factor, rounded to two places.
func (money Money) MulFactor(factor decimal.Decimal) Money {
	return Money{value: money.value.Mul(factor).Round(moneyScale)}
}

// Decimal returns the underlying decimal value.
func (money Money) Decimal() decimal.Decimal {
	return money.value
}

// String renders the amount with exactly two decimal places.
func (money Money) String() string {
	return money.value.StringFixed(moneyScale)
}

// Minutes is a positive fractional duration with two decimal places.
type Minutes struct {
	value decimal.Decimal
}

// NewMinutes parses a decimal duration, rejecting non-positive values.
func NewMinutes(raw string) (Minutes, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Minutes{}, fmt.Errorf("%w: empty value", ErrInvalidMinutes)
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Minutes{}, fmt.Errorf("%w: %v", ErrInvalidMinutes, err)
	}
	return NewMinutesFromDecimal(parsed)
}

// NewMinutesFromDecimal normalizes a decimal duration, rejecting non-positive values.
func NewMinutesFromDecimal(value decimal.Decimal) (Minutes, error) {
	if !value.IsPositive() {
		return Minutes{}, fmt.Errorf("%w: must be greater than zero", ErrInvalidMinutes)
	}
	return Minutes{value: value.Round(moneyScale)}, nil
}

// Decimal returns the underlying decimal value.
func (minutes Minutes) Decimal() decimal.Decimal {
	return minutes.value
}

// String renders the duration with two decimal places.
func (minutes Minutes) String() string {
	return minutes.value.StringFixed(moneyScale)
}

// Rating is an integer session rating between 1 and 5.
type Rating int

// NewRating validates a rating value.
func NewRating(raw int) (Rating, error) {
	if raw < 1 || raw > 5 {
		return 0, fmt.Errorf("%w: must be between 1 and 5", ErrInvalidRating)
	}
	return Rating(raw), nil
}

// Int returns the rating as a plain integer.
func (rating Rating) Int() int {
	return int(rating)
}

// UserID identifies a marketplace user.
type UserID struct {
	value string
}

// NewUserID validates and normalizes a user id.
func NewUserID(raw string) (UserID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserID{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	return UserID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id UserID) String() string {
	return id.value
}

// SessionID identifies a reading session.
type SessionID struct {
	value string
}

// NewSessionID validates and normalizes a session id.
func NewSessionID(raw string) (SessionID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SessionID{}, fmt.Errorf("%w: empty value", ErrInvalidSessionID)
	}
	return SessionID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id SessionID) String() string {
	return id.value
}

// GiftID identifies a virtual gift.
type GiftID struct {
	value string
}

// NewGiftID validates and normalizes a gift id.
func NewGiftID(raw string) (GiftID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return GiftID{}, fmt.Errorf("%w: empty value", ErrInvalidGiftID)
	}
	return GiftID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id GiftID) String() string {
	return id.value
}

// IdempotencyKey scopes duplicate detection for settlement-bearing calls.
type IdempotencyKey struct {
	value string
}

// NewIdempotencyKey validates and normalizes an idempotency key.
func NewIdempotencyKey(raw string) (IdempotencyKey, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return IdempotencyKey{}, fmt.Errorf("%w: empty value", ErrInvalidIdempotencyKey)
	}
	return IdempotencyKey{value: trimmed}, nil
}

// String returns the normalized key.
func (key IdempotencyKey) String() string {
	return key.value
}

// Role enumerates marketplace user roles.
type Role string

const (
	RoleClient Role = "client"
	RoleReader Role = "reader"
	RoleAdmin  Role = "admin"
)

// String returns the role name.
func (role Role) String() string {
	return string(role)
}

// SessionType enumerates billable session channels.
type SessionType string

const (
	SessionTypeChat  SessionType = "chat"
	SessionTypePhone SessionType = "phone"
	SessionTypeVideo SessionType = "video"
)

// ParseSessionType validates a session type name.
func ParseSessionType(raw string) (SessionType, error) {
	switch SessionType(raw) {
	case SessionTypeChat, SessionTypePhone, SessionTypeVideo:
		return SessionType(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSessionType, raw)
}

// String returns the session type name.
func (sessionType SessionType) String() string {
	return string(sessionType)
}

// SessionStatus enumerates the reading-session state machine.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// ParseSessionStatus validates a session status name.
func ParseSessionStatus(raw string) (SessionStatus, error) {
	switch SessionStatus(raw) {
	case SessionStatusPending, SessionStatusActive, SessionStatusCompleted, SessionStatusCancelled:
		return SessionStatus(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSessionStatus, raw)
}

// String returns the status name.
func (status SessionStatus) String() string {
	return string(status)
}

// Terminal reports whether no transition may leave this status.
func (status SessionStatus) Terminal() bool {
	return status == SessionStatusCompleted || status == SessionStatusCancelled
}

// TransactionType enumerates ledger transaction kinds.
type TransactionType string

const (
	TransactionDeposit         TransactionType = "deposit"
	TransactionReadingPayment  TransactionType = "reading_payment"
	TransactionGiftPurchase    TransactionType = "gift_purchase"
	TransactionProductPurchase TransactionType = "product_purchase"
	TransactionPayout          TransactionType = "payout"
	TransactionPlatformFee     TransactionType = "platform_fee"
)

// String returns the transaction type name.
func (transactionType TransactionType) String() string {
	return string(transactionType)
}

// TransactionStatus enumerates transaction lifecycle states.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
)

// String returns the transaction status name.
func (status TransactionStatus) String() string {
	return string(status)
}

// User is a marketplace account owner.
type User struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// ClientAccount holds a client's prepaid balance.
type ClientAccount struct {
	UserID     string
	Balance    Money
	TotalSpent Money
}

// ReaderProfile holds a reader's rates, earnings, and rating aggregate.
// The average rating is derived from RatingPoints/TotalReviews so repeated
// folding never accumulates rounding error.
type ReaderProfile struct {
	UserID        string
	DisplayName   string
	RatingPoints  int64
	TotalReviews  int64
	IsOnline      bool
	IsAvailable   bool
	ChatRate      Money
	PhoneRate     Money
	VideoRate     Money
	TotalEarnings Money
	PendingPayout Money
}

// Rating returns the weighted mean of all recorded ratings, zero when unreviewed.
func (profile ReaderProfile) Rating() decimal.Decimal {
	if profile.TotalReviews == 0 {
		return decimal.Zero
	}
	points := decimal.NewFromInt(profile.RatingPoints)
	reviews := decimal.NewFromInt(profile.TotalReviews)
	return points.DivRound(reviews, moneyScale)
}

// RateFor returns the locked-in per-minute rate for a session type.
func (profile ReaderProfile) RateFor(sessionType SessionType) (Money, error) {
	switch sessionType {
	case SessionTypeChat:
		return profile.ChatRate, nil
	case SessionTypePhone:
		return profile.PhoneRate, nil
	case SessionTypeVideo:
		return profile.VideoRate, nil
	}
	return Money{}, fmt.Errorf("%w: %q", ErrInvalidSessionType, sessionType)
}

// ReadingSession is a billable session between a client and a reader.
type ReadingSession struct {
	ID               string
	ClientID         string
	ReaderID         string
	Type             SessionType
	Status           SessionStatus
	RatePerMinute    Money
	DurationMinutes  *Minutes
	TotalCost        *Money
	StartedAtUnixUTC int64
	EndedAtUnixUTC   int64
	CreatedAtUnixUTC int64
}

// Transaction is one immutable line in the append-only money history.
type Transaction struct {
	ID               string
	UserID           string
	Type             TransactionType
	Status           TransactionStatus
	Amount           Money
	Description      string
	MetadataJSON     string
	CreatedAtUnixUTC int64
}

// VirtualGift is a purchasable one-off gift.
type VirtualGift struct {
	ID       string
	Name     string
	ImageURL string
	Price    Money
}

// GiftTransaction records a single gift send at its snapshotted price.
type GiftTransaction struct {
	ID               string
	GiftID           string
	SenderID         string
	ReceiverID       string
	StreamID         string
	Amount           Money
	CreatedAtUnixUTC int64
}

// SessionRating is the single rating allowed per completed session.
type SessionRating struct {
	ID               string
	SessionID        string
	ClientID         string
	ReaderID         string
	Rating           Rating
	Review           string
	CreatedAtUnixUTC int64
}
