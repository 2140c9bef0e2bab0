package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rl1809/savdo-pos/internal/port"
)

// Probe checks backend reachability. A nil error means online.
type Probe func(ctx context.Context) error

// Monitor turns a reachability probe into the binary online/offline signal
// and its edge events. State changes are deduplicated: flapping probes
// below the tick granularity produce at most one event per actual edge.
//
// With no probe configured the monitor degrades to always-online and the
// offline path becomes unreachable.
type Monitor struct {
	probe    Probe
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	online bool
	subs   []chan port.Transition
}

func NewMonitor(probe Probe, interval time.Duration, logger zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
		online:   true,
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers an edge listener. The channel is buffered; a full
// buffer drops the oldest stale edge in favor of the new one, so the
// listener always converges on the current state.
func (m *Monitor) Subscribe() <-chan port.Transition {
	ch := make(chan port.Transition, 8)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Start runs the probe loop until ctx is cancelled. Without a probe the
// monitor stays in degraded always-online mode and the loop never starts.
func (m *Monitor) Start(ctx context.Context) {
	if m.probe == nil {
		m.logger.Warn().Msg("no connectivity probe configured, assuming always online")
		return
	}
	go m.loop(ctx)
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, m.interval)
			err := m.probe(probeCtx)
			cancel()
			m.SetOnline(err == nil)
		}
	}
}

// SetOnline records the current reachability state, firing one edge event
// when the state actually changes. It is also the hook for tests and for
// the manual offline toggle in settings.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]chan port.Transition, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	edge := port.TransitionOffline
	if online {
		edge = port.TransitionOnline
	}
	m.logger.Info().Str("edge", edge.String()).Msg("connectivity transition")

	for _, ch := range subs {
		select {
		case ch <- edge:
			continue
		default:
		}
		// Full buffer: evict the oldest stale edge so the subscriber always
		// ends up seeing the latest state.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- edge:
		default:
			m.logger.Warn().Str("edge", edge.String()).Msg("subscriber buffer full, event dropped")
		}
	}
}
