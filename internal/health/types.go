package health

import "time"

// Status is the tri-state health of one capability. Mock means the service
// is deliberately unconfigured and serving built-in content; disconnected
// means it is configured (or expected) but unreachable.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusMock         Status = "mock"
)

// Service names reported in health snapshots
const (
	ServiceAI       = "ai"
	ServiceDatabase = "database"
	ServiceObjects  = "objects"
)

// ServiceHealth is the probe result for one capability.
type ServiceHealth struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Snapshot is the aggregate view across all capabilities. Healthy is true
// only when every capability is connected; a mock tier keeps the system
// usable but not healthy.
type Snapshot struct {
	Healthy   bool                     `json:"healthy"`
	Services  map[string]ServiceHealth `json:"services"`
	CheckedAt time.Time                `json:"checkedAt"`
}

// Prober checks one capability. Probes must be side-effect free; the
// aggregator guards them against panics and slow probes.
type Prober interface {
	Name() string
	Probe() Status
}
