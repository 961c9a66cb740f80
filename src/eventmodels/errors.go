package eventmodels

import "errors"

var (
	ErrValuationUnavailable = errors.New("valuation unavailable")
	ErrMalformedEvent       = errors.New("malformed feed event")
	ErrUnknownTxType        = errors.New("unknown tx type")
	ErrFeedControlMessage   = errors.New("feed control message")
	ErrTelegramAPI          = errors.New("telegram api error")
	ErrTelegramConflict     = errors.New("telegram getUpdates conflict: another instance is polling")
	ErrInvalidPolicyConfig  = errors.New("invalid policy config")
)
