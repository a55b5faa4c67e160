package gormstore

import (
	"context"
	"errors"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oraclelive/billing/pkg/billing"
)

const (
	defaultMetadataJSON   = "{}"
	pgUniqueViolationCode = "23505"
	sqliteConstraintCode  = 19
	errorOperationStore   = "store"
	errorSubjectUser      = "user"
	errorSubjectAccount   = "account"
	errorSubjectProfile   = "profile"
	errorSubjectSession   = "session"
	errorSubjectGift      = "gift"
	errorSubjectLedger    = "transaction"
	errorSubjectSettle    = "settlement"
	errorSubjectRating    = "rating"
	errorCodeCreate       = "create"
	errorCodeDuplicate    = "duplicate"
	errorCodeGet          = "get"
	errorCodeInsert       = "insert"
	errorCodeInvalid      = "invalid"
	errorCodeList         = "list"
	errorCodeLookup       = "lookup"
	errorCodeUpdate       = "update"
)

// Store implements billing.Store using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx executes fn within a transaction.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore billing.Store) error) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(ctx, &Store{db: transaction})
	})
}

// CreateUser inserts a user row. Provisioning happens outside the billing
// engine; this exists for seeding and tests.
func (store *Store) CreateUser(ctx context.Context, user billing.User) (billing.User, error) {
	model := User{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role.String(),
	}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return billing.User{}, wrapStoreError(errorSubjectUser, errorCodeInsert, err)
	}
	user.ID = model.ID
	return user, nil
}

func (store *Store) GetUser(ctx context.Context, userID billing.UserID) (billing.User, error) {
	var model User
	err := store.db.WithContext(ctx).
		Where("id = ?", userID.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, billing.ErrUserNotFound)
		}
		return billing.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, err)
	}
	return billing.User{
		ID:    model.ID,
		Email: model.Email,
		Name:  model.Name,
		Role:  billing.Role(model.Role),
	}, nil
}

func (store *Store) GetOrCreateClientAccount(ctx context.Context, userID billing.UserID) (billing.ClientAccount, error) {
	var model ClientAccount
	err := store.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		FirstOrCreate(&model, ClientAccount{UserID: userID.String()}).Error
	if err != nil {
		return billing.ClientAccount{}, wrapStoreError(errorSubjectAccount, errorCodeLookup, err)
	}
	return mapClientAccount(model)
}

func (store *Store) GetClientAccountForUpdate(ctx context.Context, userID billing.UserID) (billing.ClientAccount, error) {
	var model ClientAccount
	err := store.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.ClientAccount{}, wrapStoreError(errorSubjectAccount, errorCodeGet, billing.ErrAccountNotFound)
		}
		return billing.ClientAccount{}, wrapStoreError(errorSubjectAccount, errorCodeGet, err)
	}
	return mapClientAccount(model)
}

func (store *Store) SaveClientAccount(ctx context.Context, account billing.ClientAccount) error {
	result := store.db.WithContext(ctx).
		Model(&ClientAccount{}).
		Where("user_id = ?", account.UserID).
		Updates(map[string]interface{}{
			"balance":     account.Balance.Decimal(),
			"total_spent": account.TotalSpent.Decimal(),
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectAccount, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectAccount, errorCodeUpdate, billing.ErrAccountNotFound)
	}
	return nil
}

func (store *Store) CreateReaderProfile(ctx context.Context, profile billing.NewReaderProfile) (billing.ReaderProfile, error) {
	model := ReaderProfile{
		UserID:             profile.UserID,
		DisplayName:        profile.DisplayName,
		ChatRatePerMinute:  profile.ChatRate.Decimal(),
		PhoneRatePerMinute: profile.PhoneRate.Decimal(),
		VideoRatePerMinute: profile.VideoRate.Decimal(),
	}
	err := store.db.WithContext(ctx).Create(&model).Error
	if isUniqueViolation(err) {
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeDuplicate, billing.ErrProfileExists)
	}
	if err != nil {
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeCreate, err)
	}
	return mapReaderProfile(model)
}

func (store *Store) GetReaderProfile(ctx context.Context, userID billing.UserID) (billing.ReaderProfile, error) {
	return store.getReaderProfile(ctx, userID, false)
}

func (store *Store) GetReaderProfileForUpdate(ctx context.Context, userID billing.UserID) (billing.ReaderProfile, error) {
	return store.getReaderProfile(ctx, userID, true)
}

func (store *Store) getReaderProfile(ctx context.Context, userID billing.UserID, forUpdate bool) (billing.ReaderProfile, error) {
	query := store.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model ReaderProfile
	err := query.Where("user_id = ?", userID.String()).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, billing.ErrProfileNotFound)
		}
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, err)
	}
	return mapReaderProfile(model)
}

func (store *Store) SaveReaderProfile(ctx context.Context, profile billing.ReaderProfile) error {
	result := store.db.WithContext(ctx).
		Model(&ReaderProfile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"display_name":          profile.DisplayName,
			"rating_points":         profile.RatingPoints,
			"total_reviews":         profile.TotalReviews,
			"chat_rate_per_minute":  profile.ChatRate.Decimal(),
			"phone_rate_per_minute": profile.PhoneRate.Decimal(),
			"video_rate_per_minute": profile.VideoRate.Decimal(),
			"total_earnings":        profile.TotalEarnings.Decimal(),
			"pending_payout":        profile.PendingPayout.Decimal(),
			"updated_at":            time.Now().UTC(),
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectProfile, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectProfile, errorCodeUpdate, billing.ErrProfileNotFound)
	}
	return nil
}

func (store *Store) SetReaderAvailability(ctx context.Context, userID billing.UserID, isOnline bool, isAvailable bool) error {
	result := store.db.WithContext(ctx).
		Model(&ReaderProfile{}).
		Where("user_id = ?", userID.String()).
		Updates(map[string]interface{}{
			"is_online":    isOnline,
			"is_available": isAvailable,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectProfile, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectProfile, errorCodeUpdate, billing.ErrProfileNotFound)
	}
	return nil
}

func (store *Store) ListOnlineReaders(ctx context.Context) ([]billing.ReaderProfile, error) {
	var rows []ReaderProfile
	err := store.db.WithContext(ctx).
		Where("is_online = ? AND is_available = ?", true, true).
		Order("display_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectProfile, errorCodeList, err)
	}
	profiles := make([]billing.ReaderProfile, 0, len(rows))
	for _, row := range rows {
		profile, err := mapReaderProfile(row)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (store *Store) CreateSession(ctx context.Context, session billing.NewSession) (billing.ReadingSession, error) {
	model := ReadingSession{
		ClientID:      session.ClientID,
		ReaderID:      session.ReaderID,
		SessionType:   session.Type.String(),
		Status:        session.Status.String(),
		RatePerMinute: session.RatePerMinute.Decimal(),
		StartedAt:     time.Unix(session.StartedAtUnixUTC, 0).UTC(),
		CreatedAt:     time.Unix(session.StartedAtUnixUTC, 0).UTC(),
	}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeCreate, err)
	}
	return mapReadingSession(model)
}

func (store *Store) GetSession(ctx context.Context, sessionID billing.SessionID) (billing.ReadingSession, error) {
	return store.getSession(ctx, sessionID, false)
}

func (store *Store) GetSessionForUpdate(ctx context.Context, sessionID billing.SessionID) (billing.ReadingSession, error) {
	return store.getSession(ctx, sessionID, true)
}

func (store *Store) getSession(ctx context.Context, sessionID billing.SessionID, forUpdate bool) (billing.ReadingSession, error) {
	query := store.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model ReadingSession
	err := query.Where("id = ?", sessionID.String()).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeGet, billing.ErrSessionNotFound)
		}
		return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeGet, err)
	}
	return mapReadingSession(model)
}

func (store *Store) SaveSession(ctx context.Context, session billing.ReadingSession) error {
	updates := map[string]interface{}{
		"status": session.Status.String(),
	}
	if session.DurationMinutes != nil {
		updates["duration_minutes"] = session.DurationMinutes.Decimal()
	}
	if session.TotalCost != nil {
		updates["total_cost"] = session.TotalCost.Decimal()
	}
	if session.EndedAtUnixUTC != 0 {
		updates["ended_at"] = time.Unix(session.EndedAtUnixUTC, 0).UTC()
	}
	result := store.db.WithContext(ctx).
		Model(&ReadingSession{}).
		Where("id = ?", session.ID).
		Updates(updates)
	if result.Error != nil {
		return wrapStoreError(errorSubjectSession, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectSession, errorCodeUpdate, billing.ErrSessionNotFound)
	}
	return nil
}

// CreateGift inserts a catalog gift. The catalog is curated outside the
// billing engine; this exists for seeding and tests.
func (store *Store) CreateGift(ctx context.Context, gift billing.VirtualGift) (billing.VirtualGift, error) {
	model := VirtualGift{
		ID:       gift.ID,
		Name:     gift.Name,
		ImageURL: gift.ImageURL,
		Price:    gift.Price.Decimal(),
	}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return billing.VirtualGift{}, wrapStoreError(errorSubjectGift, errorCodeInsert, err)
	}
	gift.ID = model.ID
	return gift, nil
}

func (store *Store) GetGift(ctx context.Context, giftID billing.GiftID) (billing.VirtualGift, error) {
	var model VirtualGift
	err := store.db.WithContext(ctx).
		Where("id = ?", giftID.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.VirtualGift{}, wrapStoreError(errorSubjectGift, errorCodeGet, billing.ErrGiftNotFound)
		}
		return billing.VirtualGift{}, wrapStoreError(errorSubjectGift, errorCodeGet, err)
	}
	return mapVirtualGift(model)
}

func (store *Store) ListGifts(ctx context.Context) ([]billing.VirtualGift, error) {
	var rows []VirtualGift
	err := store.db.WithContext(ctx).
		Order("price ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectGift, errorCodeList, err)
	}
	gifts := make([]billing.VirtualGift, 0, len(rows))
	for _, row := range rows {
		gift, err := mapVirtualGift(row)
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, gift)
	}
	return gifts, nil
}

func (store *Store) InsertGiftTransaction(ctx context.Context, gift billing.NewGiftTransaction) (billing.GiftTransaction, error) {
	var streamID *string
	if gift.StreamID != "" {
		value := gift.StreamID
		streamID = &value
	}
	model := GiftTransaction{
		GiftID:     gift.GiftID,
		SenderID:   gift.SenderID,
		ReceiverID: gift.ReceiverID,
		StreamID:   streamID,
		Amount:     gift.Amount.Decimal(),
		CreatedAt:  time.Unix(gift.CreatedAtUnixUTC, 0).UTC(),
	}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return billing.GiftTransaction{}, wrapStoreError(errorSubjectGift, errorCodeInsert, err)
	}
	return mapGiftTransaction(model)
}

func (store *Store) InsertTransaction(ctx context.Context, transaction billing.NewTransaction) (billing.Transaction, error) {
	model := Transaction{
		UserID:      transaction.UserID,
		Type:        transaction.Type.String(),
		Status:      transaction.Status.String(),
		Amount:      transaction.Amount.Decimal(),
		Description: transaction.Description,
		Metadata:    datatypesJSON(transaction.MetadataJSON),
		CreatedAt:   time.Unix(transaction.CreatedAtUnixUTC, 0).UTC(),
	}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return billing.Transaction{}, wrapStoreError(errorSubjectLedger, errorCodeInsert, err)
	}
	return mapTransaction(model)
}

func (store *Store) ListTransactions(ctx context.Context, userID billing.UserID, limit int) ([]billing.Transaction, error) {
	var rows []Transaction
	err := store.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectLedger, errorCodeList, err)
	}
	transactions := make([]billing.Transaction, 0, len(rows))
	for _, row := range rows {
		transaction, err := mapTransaction(row)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}

func (store *Store) RecordSettlement(ctx context.Context, key billing.IdempotencyKey, appliedAtUnixUTC int64) error {
	model := Settlement{
		SettlementKey: key.String(),
		AppliedAt:     time.Unix(appliedAtUnixUTC, 0).UTC(),
	}
	err := store.db.WithContext(ctx).Create(&model).Error
	if isUniqueViolation(err) {
		return wrapStoreError(errorSubjectSettle, errorCodeDuplicate, billing.ErrDuplicateSettlement)
	}
	if err != nil {
		return wrapStoreError(errorSubjectSettle, errorCodeInsert, err)
	}
	return nil
}

func (store *Store) InsertSessionRating(ctx context.Context, rating billing.NewSessionRating) (billing.SessionRating, error) {
	var review *string
	if rating.Review != "" {
		value := rating.Review
		review = &value
	}
	model := SessionRating{
		SessionID: rating.SessionID,
		ClientID:  rating.ClientID,
		ReaderID:  rating.ReaderID,
		Rating:    rating.Rating.Int(),
		Review:    review,
		CreatedAt: time.Unix(rating.CreatedAtUnixUTC, 0).UTC(),
	}
	err := store.db.WithContext(ctx).Create(&model).Error
	if isUniqueViolation(err) {
		return billing.SessionRating{}, wrapStoreError(errorSubjectRating, errorCodeDuplicate, billing.ErrAlreadyRated)
	}
	if err != nil {
		return billing.SessionRating{}, wrapStoreError(errorSubjectRating, errorCodeInsert, err)
	}
	return mapSessionRating(model)
}

func wrapStoreError(subject string, code string, err error) error {
	return billing.WrapError(errorOperationStore, subject, code, err)
}

func mapClientAccount(model ClientAccount) (billing.ClientAccount, error) {
	balance, err := billing.NewMoneyFromDecimal(model.Balance)
	if err != nil {
		return billing.ClientAccount{}, wrapStoreError(errorSubjectAccount, errorCodeInvalid, err)
	}
	totalSpent, err := billing.NewMoneyFromDecimal(model.TotalSpent)
	if err != nil {
		return billing.ClientAccount{}, wrapStoreError(errorSubjectAccount, errorCodeInvalid, err)
	}
	return billing.ClientAccount{
		UserID:     model.UserID,
		Balance:    balance,
		TotalSpent: totalSpent,
	}, nil
}

func mapReaderProfile(model ReaderProfile) (billing.ReaderProfile, error) {
	chatRate, err := billing.NewMoneyFromDecimal(model.ChatRatePerMinute)
	if err != nil {
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeInvalid, err)
	}
	phoneRate, err := billing.NewMoneyFromDecimal(model.PhoneRatePerMinute)
	if err != nil {
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeInvalid, err)
	}
	videoRate, err := billing.NewMoneyFromDecimal(model.VideoRatePerMinute)
	if err != nil {
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeInvalid, err)
	}
	totalEarnings, err := billing.NewMoneyFromDecimal(model.TotalEarnings)
	if err != nil {
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeInvalid, err)
	}
	pendingPayout, err := billing.NewMoneyFromDecimal(model.PendingPayout)
	if err != nil {
		return billing.ReaderProfile{}, wrapStoreError(errorSubjectProfile, errorCodeInvalid, err)
	}
	return billing.ReaderProfile{
		UserID:        model.UserID,
		DisplayName:   model.DisplayName,
		RatingPoints:  model.RatingPoints,
		TotalReviews:  model.TotalReviews,
		IsOnline:      model.IsOnline,
		IsAvailable:   model.IsAvailable,
		ChatRate:      chatRate,
		PhoneRate:     phoneRate,
		VideoRate:     videoRate,
		TotalEarnings: totalEarnings,
		PendingPayout: pendingPayout,
	}, nil
}

func mapReadingSession(model ReadingSession) (billing.ReadingSession, error) {
	sessionType, err := billing.ParseSessionType(model.SessionType)
	if err != nil {
		return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeInvalid, err)
	}
	status, err := billing.ParseSessionStatus(model.Status)
	if err != nil {
		return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeInvalid, err)
	}
	rate, err := billing.NewMoneyFromDecimal(model.RatePerMinute)
	if err != nil {
		return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeInvalid, err)
	}
	var duration *billing.Minutes
	if model.DurationMinutes != nil {
		value, err := billing.NewMinutesFromDecimal(*model.DurationMinutes)
		if err != nil {
			return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeInvalid, err)
		}
		duration = &value
	}
	var totalCost *billing.Money
	if model.TotalCost != nil {
		value, err := billing.NewMoneyFromDecimal(*model.TotalCost)
		if err != nil {
			return billing.ReadingSession{}, wrapStoreError(errorSubjectSession, errorCodeInvalid, err)
		}
		totalCost = &value
	}
	return billing.ReadingSession{
		ID:               model.ID,
		ClientID:         model.ClientID,
		ReaderID:         model.ReaderID,
		Type:             sessionType,
		Status:           status,
		RatePerMinute:    rate,
		DurationMinutes:  duration,
		TotalCost:        totalCost,
		StartedAtUnixUTC: model.StartedAt.Unix(),
		EndedAtUnixUTC:   timeOrZero(model.EndedAt),
		CreatedAtUnixUTC: model.CreatedAt.Unix(),
	}, nil
}

func mapVirtualGift(model VirtualGift) (billing.VirtualGift, error) {
	price, err := billing.NewMoneyFromDecimal(model.Price)
	if err != nil {
		return billing.VirtualGift{}, wrapStoreError(errorSubjectGift, errorCodeInvalid, err)
	}
	return billing.VirtualGift{
		ID:       model.ID,
		Name:     model.Name,
		ImageURL: model.ImageURL,
		Price:    price,
	}, nil
}

func mapGiftTransaction(model GiftTransaction) (billing.GiftTransaction, error) {
	amount, err := billing.NewMoneyFromDecimal(model.Amount)
	if err != nil {
		return billing.GiftTransaction{}, wrapStoreError(errorSubjectGift, errorCodeInvalid, err)
	}
	var streamID string
	if model.StreamID != nil {
		streamID = *model.StreamID
	}
	return billing.GiftTransaction{
		ID:               model.ID,
		GiftID:           model.GiftID,
		SenderID:         model.SenderID,
		ReceiverID:       model.ReceiverID,
		StreamID:         streamID,
		Amount:           amount,
		CreatedAtUnixUTC: model.CreatedAt.Unix(),
	}, nil
}

func mapTransaction(model Transaction) (billing.Transaction, error) {
	amount, err := billing.NewMoneyFromDecimal(model.Amount)
	if err != nil {
		return billing.Transaction{}, wrapStoreError(errorSubjectLedger, errorCodeInvalid, err)
	}
	return billing.Transaction{
		ID:               model.ID,
		UserID:           model.UserID,
		Type:             billing.TransactionType(model.Type),
		Status:           billing.TransactionStatus(model.Status),
		Amount:           amount,
		Description:      model.Description,
		MetadataJSON:     string(model.Metadata),
		CreatedAtUnixUTC: model.CreatedAt.Unix(),
	}, nil
}

func mapSessionRating(model SessionRating) (billing.SessionRating, error) {
	rating, err := billing.NewRating(model.Rating)
	if err != nil {
		return billing.SessionRating{}, wrapStoreError(errorSubjectRating, errorCodeInvalid, err)
	}
	var review string
	if model.Review != nil {
		review = *model.Review
	}
	return billing.SessionRating{
		ID:               model.ID,
		SessionID:        model.SessionID,
		ClientID:         model.ClientID,
		ReaderID:         model.ReaderID,
		Rating:           rating,
		Review:           review,
		CreatedAtUnixUTC: model.CreatedAt.Unix(),
	}, nil
}

func timeOrZero(value *time.Time) int64 {
	if value == nil {
		return 0
	}
	return value.Unix()
}

func datatypesJSON(raw string) datatypes.JSON {
	if raw == "" {
		return datatypes.JSON([]byte(defaultMetadataJSON))
	}
	return datatypes.JSON([]byte(raw))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
