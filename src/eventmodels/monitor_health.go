package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

type MonitorHealth struct {
	Running       bool       `json:"running"`
	SessionID     *uuid.UUID `json:"sessionId,omitempty"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	TrackedAssets int        `json:"trackedAssets"`
}
