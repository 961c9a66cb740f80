package eventservices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

func Test_BinancePriceSource(t *testing.T) {
	t.Run("parses the ticker price", func(t *testing.T) {
		// arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "SOLUSDT", r.URL.Query().Get("symbol"))
			w.Write([]byte(`{"symbol":"SOLUSDT","price":"145.23000000"}`))
		}))
		defer srv.Close()

		source := NewBinancePriceSource(srv.URL + "/api/v3/ticker/price?symbol=SOLUSDT")

		// act
		rate, err := source.CurrentRate(context.Background())

		// assert
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("145.23")))
	})

	t.Run("server errors are valuation failures", func(t *testing.T) {
		// arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		source := NewBinancePriceSource(srv.URL)

		// act
		_, err := source.CurrentRate(context.Background())

		// assert
		assert.ErrorIs(t, err, eventmodels.ErrValuationUnavailable)
	})

	t.Run("zero price is a valuation failure", func(t *testing.T) {
		// arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"symbol":"SOLUSDT","price":"0"}`))
		}))
		defer srv.Close()

		source := NewBinancePriceSource(srv.URL)

		// act
		_, err := source.CurrentRate(context.Background())

		// assert
		assert.ErrorIs(t, err, eventmodels.ErrValuationUnavailable)
	})
}
