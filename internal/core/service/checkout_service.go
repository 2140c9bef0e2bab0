package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rl1809/savdo-pos/internal/core/domain"
	"github.com/rl1809/savdo-pos/internal/port"
)

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrInvalidPayment  = errors.New("unknown payment method")
	ErrOfflineDisabled = errors.New("terminal is offline and offline buffering is disabled")
	ErrDurableWrite    = errors.New("could not buffer sale locally")
)

// StoreInfo identifies the terminal's store on receipts.
type StoreInfo struct {
	Name    string
	Address string
}

// CheckoutService finalizes the open cart into a transaction. Online sales
// go straight to the backend; offline sales (and online sales that hit a
// transport failure) are buffered durably in the pending queue. A sale
// that reaches either state is never lost.
type CheckoutService struct {
	session  *CartSession
	backend  port.BackendRepository
	queue    port.PendingQueue
	monitor  port.ConnectivityMonitor
	settings port.SettingsRepository
	notifier port.Notifier
	printer  port.Printer
	store    StoreInfo
	logger   zerolog.Logger
}

func NewCheckoutService(
	session *CartSession,
	backend port.BackendRepository,
	queue port.PendingQueue,
	monitor port.ConnectivityMonitor,
	settings port.SettingsRepository,
	notifier port.Notifier,
	printer port.Printer,
	store StoreInfo,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		session:  session,
		backend:  backend,
		queue:    queue,
		monitor:  monitor,
		settings: settings,
		notifier: notifier,
		printer:  printer,
		store:    store,
		logger:   logger,
	}
}

// Checkout snapshots the cart, submits or buffers it, prints the receipt
// and clears the cart. On any error the cart is left intact so the cashier
// can retry.
func (s *CheckoutService) Checkout(ctx context.Context, method domain.PaymentMethod, cashier string) (*domain.Transaction, error) {
	if !method.Valid() {
		return nil, ErrInvalidPayment
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	if s.session.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	txn := domain.NewTransaction(s.session.cart, method, cashier, time.Now())

	if s.monitor.IsOnline() {
		err := s.backend.InsertTransaction(ctx, txn)
		if err == nil {
			txn.Status = domain.SyncSynced
			s.finish(ctx, &txn)
			return &txn, nil
		}
		if errors.Is(err, port.ErrTransactionRejected) {
			// A validation rejection can never succeed on replay;
			// surface it instead of poisoning the queue.
			return nil, fmt.Errorf("backend rejected sale %s: %w", txn.ID, err)
		}
		s.logger.Warn().Err(err).Str("txn", txn.ID).Msg("online submit failed, falling back to offline buffer")
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("settings load failed, assuming buffering enabled")
		cfg = domain.DefaultSettings()
	}
	if !cfg.Offline {
		return nil, ErrOfflineDisabled
	}

	txn.Status = domain.SyncPending
	if err := s.queue.Enqueue(ctx, txn); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDurableWrite, err)
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Sale %s saved offline. It will sync when the connection returns.", txn.ID))
	s.finish(ctx, &txn)
	return &txn, nil
}

// finish runs the post-commit side effects: receipt number, print, cart
// clear. The sale is already safe at this point, so failures here only log.
func (s *CheckoutService) finish(ctx context.Context, txn *domain.Transaction) {
	number := s.nextReceiptNumber(ctx)
	receipt := domain.BuildReceipt(*txn, s.store.Name, s.store.Address, number)
	if err := s.printer.Print(ctx, receipt); err != nil {
		s.logger.Error().Err(err).Int("receipt", number).Msg("receipt print failed")
	}
	s.session.cart.Clear()
	s.logger.Info().
		Str("txn", txn.ID).
		Str("status", string(txn.Status)).
		Int64("total", txn.Total).
		Msg("checkout complete")
}

func (s *CheckoutService) nextReceiptNumber(ctx context.Context) int {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("settings load failed, receipt number not advanced")
		return domain.DefaultSettings().ReceiptNo
	}
	number := cfg.ReceiptNo
	cfg.ReceiptNo++
	if err := s.settings.Save(ctx, cfg); err != nil {
		s.logger.Error().Err(err).Msg("settings save failed, receipt number not advanced")
	}
	return number
}

// RecordExpense writes an expense straight to the backend. Expenses have
// no offline buffer; offline terminals get the error back.
func (s *CheckoutService) RecordExpense(ctx context.Context, exp domain.Expense) error {
	if err := s.backend.InsertExpense(ctx, exp); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	s.logger.Info().Str("category", exp.Category).Int64("amount", exp.Amount).Msg("expense recorded")
	return nil
}
