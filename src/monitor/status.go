package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

func formatStat(value float64, err error) string {
	if err != nil {
		return "-"
	}

	return fmt.Sprintf("%.1f", value)
}

// RenderStatus builds the /status reply: the session line followed by a monospace table of
// tracked assets per notification state and buy count statistics for exited assets.
func RenderStatus(health eventmodels.MonitorHealth, assets []eventmodels.TrackedAsset, now time.Time) string {
	display := &strings.Builder{}

	if health.Running && health.SessionID != nil && health.StartedAt != nil {
		fmt.Fprintf(display, "Monitoring: running (session %s, up %s)\n", health.SessionID.String()[:8], now.Sub(*health.StartedAt).Truncate(time.Second))
	} else {
		display.WriteString("Monitoring: stopped\n")
	}

	counts := map[eventmodels.NotificationState]int{}
	exited, milestones := 0, 0
	var buyCounts stats.Float64Data

	for _, asset := range assets {
		counts[asset.NotificationState]++

		if asset.MilestoneNotified {
			milestones++
		}

		if asset.CreatorHasExited {
			exited++
			buyCounts = append(buyCounts, float64(asset.BuyCount))
		}
	}

	display.WriteString("```\n")

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Assets", "Count"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator("")

	table.Append([]string{"tracked", fmt.Sprintf("%d", len(assets))})
	table.Append([]string{"creator exited", fmt.Sprintf("%d", exited)})
	for _, state := range []eventmodels.NotificationState{
		eventmodels.NotificationStateNone,
		eventmodels.NotificationStateThreshold1Sent,
		eventmodels.NotificationStateThreshold2Sent,
	} {
		table.Append([]string{state.String(), fmt.Sprintf("%d", counts[state])})
	}
	table.Append([]string{"milestone", fmt.Sprintf("%d", milestones)})

	table.Append([]string{"buys mean", formatStat(stats.Mean(buyCounts))})
	table.Append([]string{"buys median", formatStat(stats.Median(buyCounts))})
	table.Append([]string{"buys max", formatStat(stats.Max(buyCounts))})

	table.Render()
	display.WriteString("```")

	return display.String()
}
