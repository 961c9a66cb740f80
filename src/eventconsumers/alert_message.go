package eventconsumers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

const bullxChainID = "1399811149"

var (
	printer          = message.NewPrinter(language.English)
	markdownReplacer = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")
)

func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}

// FormatMarketCap renders a USDT amount with two decimals and thousands separators.
func FormatMarketCap(usd decimal.Decimal) string {
	return printer.Sprintf("%.2f", usd.Round(2).InexactFloat64())
}

// FormatAlertMessage builds the Markdown body posted for a notification.
func FormatAlertMessage(kind eventmodels.NotificationKind, asset *eventmodels.TrackedAsset, usd decimal.Decimal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *%s* %s\n", kind.Emoji(), kind.Title(), kind.Emoji())
	fmt.Fprintf(&b, "*Name:* %s\n", escapeMarkdown(asset.Name))
	fmt.Fprintf(&b, "*Ticker:* %s\n", escapeMarkdown(asset.Symbol))
	fmt.Fprintf(&b, "*Market Cap (USDT):* %s\n", FormatMarketCap(usd))
	fmt.Fprintf(&b, "[PUMPFUN](https://pump.fun/%s)\n", asset.Mint)
	fmt.Fprintf(&b, "[BULLX](https://bullx.io/terminal?chainId=%s&address=%s)", bullxChainID, asset.Mint)

	return b.String()
}
