package health

import (
	"context"
	"testing"
	"time"
)

type stubProber struct {
	name   string
	status Status
	fn     func() Status
}

func (s *stubProber) Name() string { return s.name }
func (s *stubProber) Probe() Status {
	if s.fn != nil {
		return s.fn()
	}
	return s.status
}

func TestHealthyRequiresAllConnected(t *testing.T) {
	s := NewService(
		&stubProber{name: ServiceAI, status: StatusConnected},
		&stubProber{name: ServiceDatabase, status: StatusConnected},
		&stubProber{name: ServiceObjects, status: StatusConnected},
	)

	snap := s.Refresh()
	if !snap.Healthy {
		t.Error("all connected must be healthy")
	}
	if len(snap.Services) != 3 {
		t.Errorf("expected 3 services, got %d", len(snap.Services))
	}
}

func TestMockTierIsNotHealthy(t *testing.T) {
	s := NewService(
		&stubProber{name: ServiceAI, status: StatusMock},
		&stubProber{name: ServiceDatabase, status: StatusConnected},
		&stubProber{name: ServiceObjects, status: StatusConnected},
	)

	snap := s.Refresh()
	if snap.Healthy {
		t.Error("a mock tier must make the aggregate unhealthy")
	}
	if snap.Services[ServiceAI].Status != StatusMock {
		t.Errorf("ai status = %s", snap.Services[ServiceAI].Status)
	}
}

func TestPanickingProbeReportsDisconnected(t *testing.T) {
	s := NewService(
		&stubProber{name: ServiceDatabase, fn: func() Status { panic("probe exploded") }},
	)

	snap := s.Refresh()
	if snap.Services[ServiceDatabase].Status != StatusDisconnected {
		t.Errorf("panicking probe must report disconnected, got %s", snap.Services[ServiceDatabase].Status)
	}
	if snap.Healthy {
		t.Error("snapshot must be unhealthy")
	}
}

func TestHangingProbeTimesOut(t *testing.T) {
	s := NewService(
		&stubProber{name: ServiceObjects, fn: func() Status {
			time.Sleep(time.Minute)
			return StatusConnected
		}},
	)
	s.timeout = 50 * time.Millisecond

	start := time.Now()
	snap := s.Refresh()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("refresh took %s, timeout not applied", elapsed)
	}
	if snap.Services[ServiceObjects].Status != StatusDisconnected {
		t.Errorf("hanging probe must report disconnected, got %s", snap.Services[ServiceObjects].Status)
	}
}

func TestSnapshotIsCached(t *testing.T) {
	calls := 0
	s := NewService(&stubProber{name: ServiceAI, fn: func() Status {
		calls++
		return StatusConnected
	}})

	s.Snapshot()
	s.Snapshot()
	if calls != 1 {
		t.Errorf("expected 1 probe within the TTL, got %d", calls)
	}

	s.Refresh()
	if calls != 2 {
		t.Errorf("refresh must re-probe, got %d calls", calls)
	}
}

type stubGateway struct{ available bool }

func (s stubGateway) Available(context.Context) bool { return s.available }

type stubAIGateway struct{ available bool }

func (s stubAIGateway) Available() bool { return s.available }

func TestProbers(t *testing.T) {
	if got := NewAIProber(stubAIGateway{false}).Probe(); got != StatusMock {
		t.Errorf("unconfigured ai = %s, want mock", got)
	}
	if got := NewAIProber(stubAIGateway{true}).Probe(); got != StatusConnected {
		t.Errorf("configured ai = %s, want connected", got)
	}
	if got := NewStoreProber(ServiceDatabase, stubGateway{false}).Probe(); got != StatusDisconnected {
		t.Errorf("down store = %s, want disconnected", got)
	}
	if got := NewStoreProber(ServiceObjects, stubGateway{true}).Probe(); got != StatusConnected {
		t.Errorf("up store = %s, want connected", got)
	}
}
