package eventmodels

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeedEvent is a decoded record from the trade feed.
type FeedEvent interface {
	GetMint() string
	GetTxType() TxType
}

type CreationEvent struct {
	Signature   string
	Mint        string
	Creator     string
	Name        string
	Symbol      string
	MarketValue decimal.Decimal
	ReceivedAt  time.Time
}

func (e CreationEvent) GetMint() string {
	return e.Mint
}

func (e CreationEvent) GetTxType() TxType {
	return TxTypeCreate
}

type TradeEvent struct {
	Signature   string
	Mint        string
	Trader      string
	Side        TxType
	MarketValue decimal.Decimal
	ReceivedAt  time.Time
}

func (e TradeEvent) GetMint() string {
	return e.Mint
}

func (e TradeEvent) GetTxType() TxType {
	return e.Side
}
