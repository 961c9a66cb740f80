package eventservices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ctogod/cleanbot/src/eventmodels"
	"github.com/ctogod/cleanbot/src/utils"
)

// BinancePriceSource reads the SOL/USDT spot price from the Binance ticker endpoint.
type BinancePriceSource struct {
	url    string
	client *http.Client
}

func NewBinancePriceSource(url string) *BinancePriceSource {
	return &BinancePriceSource{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *BinancePriceSource) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	body, err := utils.GetJSON(ctx, s.client, s.url)
	if err != nil {
		return decimal.Zero, fmt.Errorf("BinancePriceSource.CurrentRate: %w: %w", eventmodels.ErrValuationUnavailable, err)
	}

	var dto eventmodels.BinanceTickerPriceDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return decimal.Zero, fmt.Errorf("BinancePriceSource.CurrentRate: %w: failed to decode price: %w", eventmodels.ErrValuationUnavailable, err)
	}

	if !dto.Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("BinancePriceSource.CurrentRate: %w: non-positive price %s for %s", eventmodels.ErrValuationUnavailable, dto.Price, dto.Symbol)
	}

	return dto.Price, nil
}
