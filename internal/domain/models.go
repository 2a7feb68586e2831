package domain

import "time"

// Cycle is the derived record of one read-credential, ping, sleep iteration.
// It never carries the credential itself.
type Cycle struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Attempted  bool      `json:"attempted"`             // false when the settings file could not be used
	SkipReason string    `json:"skip_reason,omitempty"` // credential error kind when skipped
	HTTPStatus int       `json:"http_status,omitempty"` // 0 when no response came back
	Reason     string    `json:"reason,omitempty"`      // transport failure class
	LatencyMS  float64   `json:"latency_ms,omitempty"`
}

// Delivered reports whether a response round-tripped this cycle.
func (c Cycle) Delivered() bool {
	return c.Attempted && c.HTTPStatus != 0
}
