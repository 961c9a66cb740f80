package eventmodels

import "github.com/shopspring/decimal"

type BinanceTickerPriceDTO struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}
