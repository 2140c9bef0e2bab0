package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rl1809/savdo-pos/internal/port"
)

var ErrPartialSync = errors.New("some buffered sales failed to sync")

// SyncService drains the pending queue when connectivity returns. It is a
// two-state machine: Idle, and Draining while a drain cycle runs. A fatal
// drain leaves the queue in place for the next online transition. The
// online edge also refreshes the cart session's catalog, so a terminal
// that booted offline starts selling as soon as the backend is reachable.
type SyncService struct {
	queue    port.PendingQueue
	backend  port.BackendRepository
	monitor  port.ConnectivityMonitor
	session  *CartSession
	notifier port.Notifier
	logger   zerolog.Logger

	mu       sync.Mutex
	draining bool
}

func NewSyncService(
	queue port.PendingQueue,
	backend port.BackendRepository,
	monitor port.ConnectivityMonitor,
	session *CartSession,
	notifier port.Notifier,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		queue:    queue,
		backend:  backend,
		monitor:  monitor,
		session:  session,
		notifier: notifier,
		logger:   logger,
	}
}

// Run listens for connectivity transitions until ctx is cancelled. The
// online edge triggers a drain; the offline edge only notifies the cashier
// that buffering took over.
func (s *SyncService) Run(ctx context.Context) {
	transitions := s.monitor.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case tr := <-transitions:
			switch tr {
			case port.TransitionOnline:
				s.notifier.Notify(ctx, "Connection restored. Terminal is back online.")
				s.refreshCatalog(ctx)
				if err := s.Drain(ctx); err != nil {
					s.logger.Error().Err(err).Msg("drain after online transition failed")
				}
			case port.TransitionOffline:
				s.notifier.Notify(ctx, "Connection lost. Offline mode active; sales are stored safely on this terminal.")
			}
		}
	}
}

// refreshCatalog pulls a fresh product snapshot into the cart session.
// Open cart lines keep their add-time prices; only new adds see the update.
func (s *SyncService) refreshCatalog(ctx context.Context) {
	if s.session == nil {
		return
	}
	catalog, err := s.backend.ListProducts(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("catalog refresh failed, keeping current snapshot")
		return
	}
	s.session.ReloadCatalog(catalog)
	s.logger.Info().Int("products", len(catalog)).Msg("catalog refreshed")
}

// Drain submits the current queue snapshot in FIFO order. The queue is
// cleared only when every entry was accepted; any failure keeps the whole
// queue as-is, so a later drain resubmits everything (at-least-once, the
// backend deduplicates replays). Concurrent calls are collapsed: while one
// drain runs, further calls return immediately.
func (s *SyncService) Drain(ctx context.Context) error {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return nil
	}
	s.draining = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.draining = false
		s.mu.Unlock()
	}()

	entries, err := s.queue.Entries(ctx)
	if err != nil {
		return fmt.Errorf("read pending queue: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	s.logger.Info().Int("count", len(entries)).Msg("draining pending queue")

	accepted := 0
	var failed []string
	for _, entry := range entries {
		err := s.backend.InsertTransaction(ctx, entry.Transaction)
		if err == nil {
			accepted++
			continue
		}
		failed = append(failed, entry.Transaction.ID)
		if errors.Is(err, port.ErrTransactionRejected) {
			s.logger.Error().Str("txn", entry.Transaction.ID).Err(err).Msg("buffered sale rejected by backend")
			continue
		}
		// Transport failure: the connection is gone again, stop here.
		s.logger.Warn().Str("txn", entry.Transaction.ID).Err(err).Msg("drain interrupted by transport failure")
		break
	}

	if len(failed) == 0 && accepted == len(entries) {
		if err := s.queue.RemoveAll(ctx); err != nil {
			// Entries stay queued and will be resubmitted; the backend's
			// idempotency guard absorbs the replay.
			return fmt.Errorf("clear pending queue: %w", err)
		}
		s.notifier.Notify(ctx, fmt.Sprintf("Synced! %d offline sale(s) delivered to the backend.", accepted))
		s.logger.Info().Int("synced", accepted).Msg("pending queue drained")
		return nil
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Sync incomplete: %d of %d sales delivered. The rest stay queued for the next attempt.", accepted, len(entries)))
	return fmt.Errorf("%w: %d of %d accepted, failed: %v", ErrPartialSync, accepted, len(entries), failed)
}

// Draining reports whether a drain cycle is in progress.
func (s *SyncService) Draining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draining
}
