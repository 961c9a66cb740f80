package eventmodels

import "time"

type TrackedAssetCSV struct {
	Mint              string `csv:"mint"`
	Name              string `csv:"name"`
	Symbol            string `csv:"symbol"`
	CreatorKey        string `csv:"creator"`
	CreatorHasExited  bool   `csv:"creator_exited"`
	BuyCount          int    `csv:"buy_count"`
	LastBuyAt         string `csv:"last_buy_at"`
	MarketValueSol    string `csv:"market_cap_sol"`
	NotificationState string `csv:"notification_state"`
	MilestoneNotified bool   `csv:"milestone_notified"`
	ActiveMessage     string `csv:"active_message"`
	CreatedAt         string `csv:"created_at"`
}

func (a *TrackedAsset) ToCSV() *TrackedAssetCSV {
	row := &TrackedAssetCSV{
		Mint:              a.Mint,
		Name:              a.Name,
		Symbol:            a.Symbol,
		CreatorKey:        a.CreatorKey,
		CreatorHasExited:  a.CreatorHasExited,
		BuyCount:          a.BuyCount,
		MarketValueSol:    a.MarketValue.String(),
		NotificationState: a.NotificationState.String(),
		MilestoneNotified: a.MilestoneNotified,
		CreatedAt:         a.CreatedAt.UTC().Format(time.RFC3339),
	}

	if a.LastBuyAt != nil {
		row.LastBuyAt = a.LastBuyAt.UTC().Format(time.RFC3339)
	}

	if a.ActiveMessage != nil {
		row.ActiveMessage = a.ActiveMessage.String()
	}

	return row
}
