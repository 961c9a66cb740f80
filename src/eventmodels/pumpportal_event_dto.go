package eventmodels

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PumpPortalEventDTO is the raw JSON record pushed by the PumpPortal data socket. Subscription
// acknowledgements only carry Message.
type PumpPortalEventDTO struct {
	Signature       string          `json:"signature"`
	Mint            string          `json:"mint"`
	TraderPublicKey string          `json:"traderPublicKey"`
	TxType          TxType          `json:"txType"`
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	MarketCapSol    decimal.Decimal `json:"marketCapSol"`
	SolAmount       decimal.Decimal `json:"solAmount"`
	Message         string          `json:"message"`
	Errors          string          `json:"errors"`
}

func (dto *PumpPortalEventDTO) ToFeedEvent(receivedAt time.Time) (FeedEvent, error) {
	if dto.TxType == "" {
		if dto.Message != "" || dto.Errors != "" {
			return nil, ErrFeedControlMessage
		}

		return nil, fmt.Errorf("%w: missing txType", ErrMalformedEvent)
	}

	if dto.Mint == "" {
		return nil, fmt.Errorf("%w: missing mint", ErrMalformedEvent)
	}

	switch dto.TxType {
	case TxTypeCreate:
		if dto.TraderPublicKey == "" {
			return nil, fmt.Errorf("%w: creation of %s without creator", ErrMalformedEvent, dto.Mint)
		}

		return CreationEvent{
			Signature:   dto.Signature,
			Mint:        dto.Mint,
			Creator:     dto.TraderPublicKey,
			Name:        dto.Name,
			Symbol:      dto.Symbol,
			MarketValue: dto.MarketCapSol,
			ReceivedAt:  receivedAt,
		}, nil
	case TxTypeBuy, TxTypeSell:
		if dto.TxType == TxTypeSell && dto.TraderPublicKey == "" {
			return nil, fmt.Errorf("%w: sell of %s without trader", ErrMalformedEvent, dto.Mint)
		}

		return TradeEvent{
			Signature:   dto.Signature,
			Mint:        dto.Mint,
			Trader:      dto.TraderPublicKey,
			Side:        dto.TxType,
			MarketValue: dto.MarketCapSol,
			ReceivedAt:  receivedAt,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTxType, dto.TxType)
	}
}
