package health

import "context"

// availability is the surface the persistence gateways expose for probing.
type availability interface {
	Available(ctx context.Context) bool
}

// aiAvailability matches the AI gateway, whose availability is pure
// configuration and needs no context.
type aiAvailability interface {
	Available() bool
}

// AIProber reports connected when a provider is configured and mock
// otherwise. An unconfigured AI tier is a deliberate mode, not an outage.
type AIProber struct {
	gateway aiAvailability
}

func NewAIProber(gateway aiAvailability) *AIProber {
	return &AIProber{gateway: gateway}
}

func (p *AIProber) Name() string { return ServiceAI }

func (p *AIProber) Probe() Status {
	if p.gateway.Available() {
		return StatusConnected
	}
	return StatusMock
}

// StoreProber reports connected or disconnected for a persistence gateway.
// A persistence tier has no mock mode: when it is down, writes land in the
// local fallback and the capability is degraded.
type StoreProber struct {
	name    string
	gateway availability
}

func NewStoreProber(name string, gateway availability) *StoreProber {
	return &StoreProber{name: name, gateway: gateway}
}

func (p *StoreProber) Name() string { return p.name }

func (p *StoreProber) Probe() Status {
	if p.gateway.Available(context.Background()) {
		return StatusConnected
	}
	return StatusDisconnected
}
