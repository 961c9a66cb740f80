package eventmodels

type NotificationKind string

const (
	NotificationKindModerate  NotificationKind = "moderate_momentum"
	NotificationKindHigh      NotificationKind = "high_momentum"
	NotificationKindMilestone NotificationKind = "milestone"
)

// Title is the headline used in the posted message.
func (k NotificationKind) Title() string {
	switch k {
	case NotificationKindModerate:
		return "Potential CTO"
	case NotificationKindHigh:
		return "HIGH POTENTIAL CTO"
	case NotificationKindMilestone:
		return "COOKED"
	default:
		return string(k)
	}
}

func (k NotificationKind) Emoji() string {
	switch k {
	case NotificationKindModerate:
		return "🚨"
	case NotificationKindHigh:
		return "🟢"
	case NotificationKindMilestone:
		return "🔥"
	default:
		return ""
	}
}

// IsThreshold reports whether the kind belongs to the buy-count ladder.
func (k NotificationKind) IsThreshold() bool {
	return k == NotificationKindModerate || k == NotificationKindHigh
}
