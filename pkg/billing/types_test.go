package billing

import (
	"errors"
	"testing"
)

func TestNewMoneyParsesAndRounds(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "integer", raw: "25", want: "25.00"},
		{name: "two places", raw: "2.50", want: "2.50"},
		{name: "rounds half up", raw: "1.005", want: "1.01"},
		{name: "rounds down", raw: "1.004", want: "1.00"},
		{name: "trims spaces", raw: " 3.10 ", want: "3.10"},
		{name: "zero", raw: "0", want: "0.00"},
	}
	for _, testCase := range cases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			amount, err := NewMoney(testCase.raw)
			if err != nil {
				test.Fatalf("parse %q: %v", testCase.raw, err)
			}
			if amount.String() != testCase.want {
				test.Fatalf("expected %s, got %s", testCase.want, amount)
			}
		})
	}
}

func TestNewMoneyRejectsBadInput(test *testing.T) {
	test.Parallel()
	for _, raw := range []string{"", "  ", "abc", "-1.00", "1..2"} {
		if _, err := NewMoney(raw); !errors.Is(err, ErrInvalidMoney) {
			test.Fatalf("expected ErrInvalidMoney for %q, got %v", raw, err)
		}
	}
}

func TestMoneyMulMinutesIsDeterministic(test *testing.T) {
	test.Parallel()
	rate := mustMoney(test, "2.50")
	duration := mustMinutes(test, "10.00")
	for attempt := 0; attempt < 100; attempt++ {
		if got := rate.MulMinutes(duration).String(); got != "25.00" {
			test.Fatalf("attempt %d: expected 25.00, got %s", attempt, got)
		}
	}
	// Fractional minutes round to cents.
	if got := mustMoney(test, "1.99").MulMinutes(mustMinutes(test, "3.33")).String(); got != "6.63" {
		test.Fatalf("expected 6.63, got %s", got)
	}
}

func TestMoneySubRejectsOverdraft(test *testing.T) {
	test.Parallel()
	balance := mustMoney(test, "10.00")
	if _, err := balance.Sub(mustMoney(test, "10.01")); !errors.Is(err, ErrInsufficientFunds) {
		test.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	remaining, err := balance.Sub(mustMoney(test, "10.00"))
	if err != nil {
		test.Fatalf("exact sub: %v", err)
	}
	if !remaining.Zero() {
		test.Fatalf("expected zero remainder, got %s", remaining)
	}
}

func TestNewMinutesRejectsNonPositive(test *testing.T) {
	test.Parallel()
	for _, raw := range []string{"0", "-5", "", "abc"} {
		if _, err := NewMinutes(raw); !errors.Is(err, ErrInvalidMinutes) {
			test.Fatalf("expected ErrInvalidMinutes for %q, got %v", raw, err)
		}
	}
}

func TestNewRatingBounds(test *testing.T) {
	test.Parallel()
	for _, value := range []int{1, 3, 5} {
		if _, err := NewRating(value); err != nil {
			test.Fatalf("rating %d: %v", value, err)
		}
	}
	for _, value := range []int{0, 6, -1} {
		if _, err := NewRating(value); !errors.Is(err, ErrInvalidRating) {
			test.Fatalf("expected ErrInvalidRating for %d", value)
		}
	}
}

func TestParseSessionType(test *testing.T) {
	test.Parallel()
	for _, raw := range []string{"chat", "phone", "video"} {
		if _, err := ParseSessionType(raw); err != nil {
			test.Fatalf("parse %q: %v", raw, err)
		}
	}
	if _, err := ParseSessionType("email"); !errors.Is(err, ErrInvalidSessionType) {
		test.Fatalf("expected ErrInvalidSessionType, got %v", err)
	}
}

func TestParseSessionStatus(test *testing.T) {
	test.Parallel()
	for _, raw := range []string{"pending", "active", "completed", "cancelled"} {
		if _, err := ParseSessionStatus(raw); err != nil {
			test.Fatalf("parse %q: %v", raw, err)
		}
	}
	if _, err := ParseSessionStatus("paused"); !errors.Is(err, ErrInvalidSessionStatus) {
		test.Fatalf("expected ErrInvalidSessionStatus, got %v", err)
	}
}

func TestSessionStatusTerminal(test *testing.T) {
	test.Parallel()
	if SessionStatusPending.Terminal() || SessionStatusActive.Terminal() {
		test.Fatal("pending and active are not terminal")
	}
	if !SessionStatusCompleted.Terminal() || !SessionStatusCancelled.Terminal() {
		test.Fatal("completed and cancelled are terminal")
	}
}

func TestReaderProfileRateFor(test *testing.T) {
	test.Parallel()
	profile := ReaderProfile{
		ChatRate:  mustMoney(test, "1.00"),
		PhoneRate: mustMoney(test, "2.00"),
		VideoRate: mustMoney(test, "3.00"),
	}
	cases := []struct {
		sessionType SessionType
		want        string
	}{
		{SessionTypeChat, "1.00"},
		{SessionTypePhone, "2.00"},
		{SessionTypeVideo, "3.00"},
	}
	for _, testCase := range cases {
		rate, err := profile.RateFor(testCase.sessionType)
		if err != nil {
			test.Fatalf("rate for %s: %v", testCase.sessionType, err)
		}
		if rate.String() != testCase.want {
			test.Fatalf("expected %s for %s, got %s", testCase.want, testCase.sessionType, rate)
		}
	}
	if _, err := profile.RateFor(SessionType("email")); !errors.Is(err, ErrInvalidSessionType) {
		test.Fatalf("expected ErrInvalidSessionType, got %v", err)
	}
}

func TestReaderProfileRatingDerivation(test *testing.T) {
	test.Parallel()
	profile := ReaderProfile{}
	if !profile.Rating().IsZero() {
		test.Fatalf("unreviewed profile must rate zero, got %s", profile.Rating())
	}
	profile.RatingPoints = 8
	profile.TotalReviews = 3
	if got := profile.Rating().StringFixed(2); got != "2.67" {
		test.Fatalf("expected 2.67, got %s", got)
	}
}

func TestIdentifierConstructorsTrim(test *testing.T) {
	test.Parallel()
	userID, err := NewUserID("  user-1  ")
	if err != nil {
		test.Fatalf("user id: %v", err)
	}
	if userID.String() != "user-1" {
		test.Fatalf("expected trimmed id, got %q", userID.String())
	}
	if _, err := NewUserID("   "); !errors.Is(err, ErrInvalidUserID) {
		test.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if _, err := NewSessionID(""); !errors.Is(err, ErrInvalidSessionID) {
		test.Fatal("expected ErrInvalidSessionID")
	}
	if _, err := NewGiftID(""); !errors.Is(err, ErrInvalidGiftID) {
		test.Fatal("expected ErrInvalidGiftID")
	}
	if _, err := NewIdempotencyKey(""); !errors.Is(err, ErrInvalidIdempotencyKey) {
		test.Fatal("expected ErrInvalidIdempotencyKey")
	}
}
