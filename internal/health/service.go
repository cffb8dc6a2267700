package health

import (
	"log"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultProbeTimeout = 4 * time.Second
	snapshotTTL         = 5 * time.Second
	snapshotKey         = "snapshot"
)

// Service aggregates capability probes into a single health snapshot. The
// snapshot is cached briefly for the health endpoint; this cache never feeds
// back into gateway routing, which probes per operation.
type Service struct {
	mu      sync.Mutex
	probers []Prober
	cache   *gocache.Cache
	timeout time.Duration
}

// NewService creates a health service over the given probers.
func NewService(probers ...Prober) *Service {
	return &Service{
		probers: probers,
		cache:   gocache.New(snapshotTTL, time.Minute),
		timeout: defaultProbeTimeout,
	}
}

// Register adds a prober after construction.
func (s *Service) Register(p Prober) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probers = append(s.probers, p)
}

// Snapshot returns the cached aggregate view, refreshing it when stale.
func (s *Service) Snapshot() Snapshot {
	if cached, ok := s.cache.Get(snapshotKey); ok {
		return cached.(Snapshot)
	}
	return s.Refresh()
}

// Refresh probes every capability in parallel and replaces the cached
// snapshot. Used by the health endpoint on cache miss and by the periodic
// refresh job.
func (s *Service) Refresh() Snapshot {
	s.mu.Lock()
	probers := make([]Prober, len(s.probers))
	copy(probers, s.probers)
	s.mu.Unlock()

	now := time.Now().UTC()
	snapshot := Snapshot{
		Healthy:   true,
		Services:  make(map[string]ServiceHealth, len(probers)),
		CheckedAt: now,
	}

	type outcome struct {
		name   string
		status Status
	}
	results := make(chan outcome, len(probers))

	for _, p := range probers {
		go func(p Prober) {
			results <- outcome{name: p.Name(), status: s.safeProbe(p)}
		}(p)
	}

	for range probers {
		res := <-results
		snapshot.Services[res.name] = ServiceHealth{
			Name:      res.name,
			Status:    res.status,
			CheckedAt: now,
		}
		if res.status != StatusConnected {
			snapshot.Healthy = false
		}
	}

	s.cache.Set(snapshotKey, snapshot, snapshotTTL)
	return snapshot
}

// safeProbe runs one probe with a panic guard and a time budget. A probe
// that hangs or panics reports disconnected rather than taking down the
// aggregator.
func (s *Service) safeProbe(p Prober) Status {
	done := make(chan Status, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("⚠️ Health probe %s panicked: %v", p.Name(), r)
				done <- StatusDisconnected
			}
		}()
		done <- p.Probe()
	}()

	select {
	case status := <-done:
		return status
	case <-time.After(s.timeout):
		log.Printf("⚠️ Health probe %s timed out after %s", p.Name(), s.timeout)
		return StatusDisconnected
	}
}
