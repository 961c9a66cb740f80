package eventmodels

type NotificationState int

const (
	NotificationStateNone NotificationState = iota
	NotificationStateThreshold1Sent
	NotificationStateThreshold2Sent
)

func (s NotificationState) String() string {
	switch s {
	case NotificationStateNone:
		return "NONE"
	case NotificationStateThreshold1Sent:
		return "THRESHOLD1_SENT"
	case NotificationStateThreshold2Sent:
		return "THRESHOLD2_SENT"
	default:
		return "UNKNOWN"
	}
}

func (s NotificationState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
