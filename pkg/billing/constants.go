package billing

import "github.com/shopspring/decimal"

const (
	operationAddFunds          = "add_funds"
	operationCreateSession     = "create_session"
	operationTransitionSession = "transition_session"
	operationSendGift          = "send_gift"
	operationRateSession       = "rate_session"
	operationCreateProfile     = "create_reader_profile"
	operationSetAvailability   = "set_reader_availability"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	settlementKeyDelimiter    = ":"
	settlementScopeSession    = "session"
	settlementScopeGift       = "gift"
	settlementScopeDeposit    = "deposit"
	settlementSuffixCompleted = "completed"
)

// giftSplitFactor is the fraction of a gift's price credited to the reader;
// the remainder is ledgered as a platform fee on the sender.
var giftSplitFactor = decimal.NewFromFloat(0.70)

// giftPlatformFactor is the platform's retained share of a gift price.
var giftPlatformFactor = decimal.NewFromFloat(0.30)
