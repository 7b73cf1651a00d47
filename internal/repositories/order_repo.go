package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"oona/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListActive(ctx context.Context) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	DeleteAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context, dayStart, monthStart time.Time) (*models.DashboardStats, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, table_number, items, total, status, customer_notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var items []byte
	var status string
	err := row.Scan(&order.ID, &order.TableNumber, &items, &order.Total, &status, &order.CustomerNotes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	order.Status = models.OrderStatus(status)
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of order %s: %w", order.ID, err)
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	query := `
		INSERT INTO orders (id, table_number, items, total, status, customer_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query, order.ID, order.TableNumber, items, order.Total, string(order.Status), order.CustomerNotes).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

// ListActive returns every order that is not completed, newest first.
func (r *orderRepo) ListActive(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status <> 'completed' ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus only succeeds when the stored status may transition to status.
func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	sources := models.AllowedSources(status)
	from := make([]string, len(sources))
	for i, s := range sources {
		from[i] = string(s)
	}

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = ANY($3)`
	tag, err := r.db.Exec(ctx, query, string(status), id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read order status: %w", err)
	}
	return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current, status)
}

func (r *orderRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats aggregates revenue and counters. Cancelled orders never count toward
// revenue, totals or active tables.
func (r *orderRepo) Stats(ctx context.Context, dayStart, monthStart time.Time) (*models.DashboardStats, error) {
	query := `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE created_at >= $1 AND status <> 'cancelled'), 0),
			COALESCE(SUM(total) FILTER (WHERE created_at >= $2 AND status <> 'cancelled'), 0),
			COUNT(*) FILTER (WHERE status <> 'cancelled'),
			COUNT(DISTINCT table_number) FILTER (WHERE created_at >= $1 AND status <> 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'accepted'),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM orders
	`
	stats := &models.DashboardStats{}
	err := r.db.QueryRow(ctx, query, dayStart, monthStart).Scan(
		&stats.TodayEarnings,
		&stats.MonthlyEarnings,
		&stats.TotalOrders,
		&stats.ActiveTables,
		&stats.PendingOrders,
		&stats.InProgressOrders,
		&stats.CompletedOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order stats: %w", err)
	}
	return stats, nil
}
