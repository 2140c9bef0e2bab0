package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rl1809/savdo-pos/internal/core/domain"
	"github.com/rl1809/savdo-pos/internal/port"
)

// MySQLAdapter implements the backend write interface against the hosted
// relational store. Inserts are idempotent on transaction ID, so an
// at-least-once drain can replay entries safely.
type MySQLAdapter struct {
	db    *sql.DB
	guard port.IdempotencyGuard // optional, nil disables the fast dedup path
}

func NewMySQLAdapter(db *sql.DB, guard port.IdempotencyGuard) *MySQLAdapter {
	return &MySQLAdapter{db: db, guard: guard}
}

// InsertTransaction persists a sale with its lines and decrements stock.
// Validation failures return ErrTransactionRejected; replayed IDs are
// silently accepted without a second write. The guard key is marked only
// after the commit: a failed insert must stay retryable on the next drain.
func (m *MySQLAdapter) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}

	key := "txn:" + txn.ID
	if m.guard != nil {
		seen, err := m.guard.Seen(ctx, key)
		if err != nil {
			return fmt.Errorf("idempotency check: %w", err)
		}
		if seen {
			return nil
		}
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT IGNORE INTO sales
		(id, subtotal, discount_pct, discount_amount, total, method, cashier, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Subtotal, txn.DiscountPct, txn.DiscountAmount, txn.Total,
		string(txn.Method), txn.Cashier, string(domain.SyncSynced), txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Replay of an already-synced sale.
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit sale: %w", err)
		}
		m.markSynced(ctx, key)
		return nil
	}

	for _, line := range txn.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sale_lines (sale_id, product_id, name, qty, unit_price)
			VALUES (?, ?, ?, ?, ?)`,
			txn.ID, line.ProductID, line.Name, line.Qty, line.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}

		// Stock decrement is not guarded against going negative: the sale
		// already happened at the terminal, so the record must land and a
		// negative stock is the honest signal of an oversell.
		_, err = tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - ? WHERE id = ?`,
			line.Qty, line.ProductID,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sale: %w", err)
	}
	m.markSynced(ctx, key)
	return nil
}

// markSynced is best effort: a missed mark only costs the fast-path skip,
// the INSERT IGNORE absorbs the replay either way.
func (m *MySQLAdapter) markSynced(ctx context.Context, key string) {
	if m.guard == nil {
		return
	}
	_ = m.guard.Mark(ctx, key)
}

func validateTransaction(txn domain.Transaction) error {
	if len(txn.Lines) == 0 {
		return fmt.Errorf("%w: no lines", port.ErrTransactionRejected)
	}
	if !txn.Method.Valid() {
		return fmt.Errorf("%w: payment method %q", port.ErrTransactionRejected, txn.Method)
	}
	var subtotal int64
	for _, line := range txn.Lines {
		if line.Qty <= 0 {
			return fmt.Errorf("%w: line %s has qty %d", port.ErrTransactionRejected, line.ProductID, line.Qty)
		}
		subtotal += line.LineTotal()
	}
	if subtotal != txn.Subtotal || txn.Subtotal-txn.DiscountAmount != txn.Total {
		return fmt.Errorf("%w: totals do not add up", port.ErrTransactionRejected)
	}
	return nil
}

func (m *MySQLAdapter) InsertExpense(ctx context.Context, exp domain.Expense) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO expenses (id, date, category, description, amount, cashier)
		VALUES (?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.Date, exp.Category, exp.Description, exp.Amount, exp.Cashier,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context) (domain.Catalog, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, barcode, name, category, price, stock, min_stock
		FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var catalog domain.Catalog
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Barcode, &p.Name, &p.Category, &p.Price, &p.Stock, &p.MinStock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		catalog = append(catalog, p)
	}
	return catalog, rows.Err()
}

// GetUserByEmail implements port.UserRepository. The permissions column
// holds an optional JSON array overriding the role defaults.
func (m *MySQLAdapter) GetUserByEmail(ctx context.Context, email string) (*port.UserRecord, error) {
	var (
		rec         port.UserRecord
		role        string
		permissions sql.NullString
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.password, u.role, u.store_id, s.name, u.permissions
		FROM users u JOIN stores s ON s.id = u.store_id
		WHERE u.email = ?`, email,
	).Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Password, &role, &rec.StoreID, &rec.StoreName, &permissions)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	rec.Role = domain.Role(role)
	if permissions.Valid && permissions.String != "" {
		if err := json.Unmarshal([]byte(permissions.String), &rec.Permissions); err != nil {
			return nil, fmt.Errorf("unmarshal user permissions: %w", err)
		}
	}
	return &rec, nil
}
