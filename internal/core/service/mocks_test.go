package service

import (
	"context"
	"sync"
	"time"

	"github.com/rl1809/savdo-pos/internal/core/domain"
	"github.com/rl1809/savdo-pos/internal/port"
)

// In-memory pending queue
type memQueue struct {
	mu         sync.Mutex
	entries    []port.QueueEntry
	seq        int64
	enqueueErr error
}

func (q *memQueue) Enqueue(_ context.Context, txn domain.Transaction) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.seq++
	q.entries = append(q.entries, port.QueueEntry{Seq: q.seq, Transaction: txn, EnqueuedAt: time.Now()})
	return nil
}

func (q *memQueue) Entries(context.Context) ([]port.QueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]port.QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

func (q *memQueue) RemoveAll(context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	return nil
}

func (q *memQueue) Len(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries), nil
}

// Mock backend; errFor maps transaction IDs to per-entry failures, failAll
// fails every insert. block, when set, stalls inserts until released.
type mockBackend struct {
	mu       sync.Mutex
	inserted []domain.Transaction
	expenses []domain.Expense
	errFor   map[string]error
	failAll  error
	block    chan struct{}
	catalog  domain.Catalog
}

func (b *mockBackend) InsertTransaction(_ context.Context, txn domain.Transaction) error {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAll != nil {
		return b.failAll
	}
	if err, ok := b.errFor[txn.ID]; ok {
		return err
	}
	b.inserted = append(b.inserted, txn)
	return nil
}

func (b *mockBackend) InsertExpense(_ context.Context, exp domain.Expense) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAll != nil {
		return b.failAll
	}
	b.expenses = append(b.expenses, exp)
	return nil
}

func (b *mockBackend) ListProducts(context.Context) (domain.Catalog, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAll != nil {
		return nil, b.failAll
	}
	return b.catalog, nil
}

func (b *mockBackend) insertedIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, len(b.inserted))
	for i, txn := range b.inserted {
		ids[i] = txn.ID
	}
	return ids
}

// Stub connectivity monitor with a manual switch.
type stubMonitor struct {
	mu     sync.Mutex
	online bool
	ch     chan port.Transition
}

func newStubMonitor(online bool) *stubMonitor {
	return &stubMonitor{online: online, ch: make(chan port.Transition, 8)}
}

func (m *stubMonitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *stubMonitor) Subscribe() <-chan port.Transition { return m.ch }

func (m *stubMonitor) setOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	m.mu.Unlock()
	if online {
		m.ch <- port.TransitionOnline
	} else {
		m.ch <- port.TransitionOffline
	}
}

// Notifier capturing messages.
type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *captureNotifier) Notify(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *captureNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

// Printer capturing receipts.
type capturePrinter struct {
	mu       sync.Mutex
	receipts []domain.Receipt
}

func (p *capturePrinter) Print(_ context.Context, r domain.Receipt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.receipts = append(p.receipts, r)
	return nil
}

// In-memory settings repository.
type memSettings struct {
	mu  sync.Mutex
	cfg domain.AppSettings
}

func newMemSettings() *memSettings {
	return &memSettings{cfg: domain.DefaultSettings()}
}

func (s *memSettings) Load(context.Context) (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, nil
}

func (s *memSettings) Save(_ context.Context, cfg domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

// Stub user repository keyed by email.
type stubUsers struct {
	users map[string]*port.UserRecord
	err   error
}

func (s *stubUsers) GetUserByEmail(_ context.Context, email string) (*port.UserRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[email], nil
}
