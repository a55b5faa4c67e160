package httpapi

import (
	"encoding/json"

	"github.com/oraclelive/billing/pkg/billing"
)

// Amounts cross the wire as fixed two-decimal strings, never floats.

type accountPayload struct {
	UserID     string `json:"user_id"`
	Balance    string `json:"balance"`
	TotalSpent string `json:"total_spent"`
}

func accountPayloadFrom(account billing.ClientAccount) accountPayload {
	return accountPayload{
		UserID:     account.UserID,
		Balance:    account.Balance.String(),
		TotalSpent: account.TotalSpent.String(),
	}
}

type profilePayload struct {
	UserID             string `json:"user_id"`
	DisplayName        string `json:"display_name"`
	Rating             string `json:"rating"`
	TotalReviews       int64  `json:"total_reviews"`
	IsOnline           bool   `json:"is_online"`
	IsAvailable        bool   `json:"is_available"`
	ChatRatePerMinute  string `json:"chat_rate_per_minute"`
	PhoneRatePerMinute string `json:"phone_rate_per_minute"`
	VideoRatePerMinute string `json:"video_rate_per_minute"`
	TotalEarnings      string `json:"total_earnings"`
	PendingPayout      string `json:"pending_payout"`
}

func profilePayloadFrom(profile billing.ReaderProfile) profilePayload {
	return profilePayload{
		UserID:             profile.UserID,
		DisplayName:        profile.DisplayName,
		Rating:             profile.Rating().StringFixed(2),
		TotalReviews:       profile.TotalReviews,
		IsOnline:           profile.IsOnline,
		IsAvailable:        profile.IsAvailable,
		ChatRatePerMinute:  profile.ChatRate.String(),
		PhoneRatePerMinute: profile.PhoneRate.String(),
		VideoRatePerMinute: profile.VideoRate.String(),
		TotalEarnings:      profile.TotalEarnings.String(),
		PendingPayout:      profile.PendingPayout.String(),
	}
}

type sessionPayload struct {
	ID               string  `json:"id"`
	ClientID         string  `json:"client_id"`
	ReaderID         string  `json:"reader_id"`
	SessionType      string  `json:"session_type"`
	Status           string  `json:"status"`
	RatePerMinute    string  `json:"rate_per_minute"`
	DurationMinutes  *string `json:"duration_minutes"`
	TotalCost        *string `json:"total_cost"`
	StartedAtUnixUTC int64   `json:"started_at_unix_utc"`
	EndedAtUnixUTC   int64   `json:"ended_at_unix_utc,omitempty"`
}

func sessionPayloadFrom(session billing.ReadingSession) sessionPayload {
	var duration *string
	if session.DurationMinutes != nil {
		value := session.DurationMinutes.String()
		duration = &value
	}
	var totalCost *string
	if session.TotalCost != nil {
		value := session.TotalCost.String()
		totalCost = &value
	}
	return sessionPayload{
		ID:               session.ID,
		ClientID:         session.ClientID,
		ReaderID:         session.ReaderID,
		SessionType:      session.Type.String(),
		Status:           session.Status.String(),
		RatePerMinute:    session.RatePerMinute.String(),
		DurationMinutes:  duration,
		TotalCost:        totalCost,
		StartedAtUnixUTC: session.StartedAtUnixUTC,
		EndedAtUnixUTC:   session.EndedAtUnixUTC,
	}
}

type transactionPayload struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Type             string          `json:"type"`
	Status           string          `json:"status"`
	Amount           string          `json:"amount"`
	Description      string          `json:"description"`
	Metadata         json.RawMessage `json:"metadata"`
	CreatedAtUnixUTC int64           `json:"created_at_unix_utc"`
}

func transactionPayloadFrom(transaction billing.Transaction) transactionPayload {
	metadata := transaction.MetadataJSON
	if metadata == "" {
		metadata = "{}"
	}
	return transactionPayload{
		ID:               transaction.ID,
		UserID:           transaction.UserID,
		Type:             transaction.Type.String(),
		Status:           transaction.Status.String(),
		Amount:           transaction.Amount.String(),
		Description:      transaction.Description,
		Metadata:         json.RawMessage(metadata),
		CreatedAtUnixUTC: transaction.CreatedAtUnixUTC,
	}
}

type giftPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Price    string `json:"price"`
}

func giftPayloadFrom(gift billing.VirtualGift) giftPayload {
	return giftPayload{
		ID:       gift.ID,
		Name:     gift.Name,
		ImageURL: gift.ImageURL,
		Price:    gift.Price.String(),
	}
}

type giftTransactionPayload struct {
	ID               string `json:"id"`
	GiftID           string `json:"gift_id"`
	SenderID         string `json:"sender_id"`
	ReceiverID       string `json:"receiver_id"`
	StreamID         string `json:"stream_id,omitempty"`
	Amount           string `json:"amount"`
	CreatedAtUnixUTC int64  `json:"created_at_unix_utc"`
}

func giftTransactionPayloadFrom(gift billing.GiftTransaction) giftTransactionPayload {
	return giftTransactionPayload{
		ID:               gift.ID,
		GiftID:           gift.GiftID,
		SenderID:         gift.SenderID,
		ReceiverID:       gift.ReceiverID,
		StreamID:         gift.StreamID,
		Amount:           gift.Amount.String(),
		CreatedAtUnixUTC: gift.CreatedAtUnixUTC,
	}
}

type ratingPayload struct {
	ID               string `json:"id"`
	SessionID        string `json:"session_id"`
	ClientID         string `json:"client_id"`
	ReaderID         string `json:"reader_id"`
	Rating           int    `json:"rating"`
	Review           string `json:"review,omitempty"`
	CreatedAtUnixUTC int64  `json:"created_at_unix_utc"`
}

func ratingPayloadFrom(rating billing.SessionRating) ratingPayload {
	return ratingPayload{
		ID:               rating.ID,
		SessionID:        rating.SessionID,
		ClientID:         rating.ClientID,
		ReaderID:         rating.ReaderID,
		Rating:           rating.Rating.Int(),
		Review:           rating.Review,
		CreatedAtUnixUTC: rating.CreatedAtUnixUTC,
	}
}
