package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"oona/internal/models"
	"oona/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const maxNotesLength = 500

// OrderService is the authoritative order store used by checkout and the dashboard.
type OrderService interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListActive(ctx context.Context) ([]*models.Order, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	DeleteAll(ctx context.Context) (int64, error)
}

type orderService struct {
	repo repositories.OrderRepository
	loc  *time.Location
	now  func() time.Time
}

func NewOrderService(repo repositories.OrderRepository, loc *time.Location) OrderService {
	if loc == nil {
		loc = time.Local
	}
	return &orderService{repo: repo, loc: loc, now: time.Now}
}

// StatsWindow returns local midnight and the first instant of the month for now.
func StatsWindow(now time.Time, loc *time.Location) (dayStart, monthStart time.Time) {
	local := now.In(loc)
	dayStart = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	monthStart = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return dayStart, monthStart
}

// NormalizeNotes trims notes, dropping them when blank. Notes longer than
// maxNotesLength characters or not valid UTF-8 are rejected.
func NormalizeNotes(notes string) (*string, error) {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return nil, nil
	}
	if !utf8.ValidString(trimmed) {
		return nil, fieldError("customer_notes", "notes contain invalid characters")
	}
	if utf8.RuneCountInString(trimmed) > maxNotesLength {
		return nil, fieldError("customer_notes", fmt.Sprintf("notes cannot exceed %d characters", maxNotesLength))
	}
	return &trimmed, nil
}

func (s *orderService) Create(ctx context.Context, order *models.Order) error {
	if order.TableNumber <= 0 {
		return ErrInvalidTableNumber
	}
	if len(order.Items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return fieldError("items", fmt.Sprintf("quantity of %s must be positive", item.Name))
		}
		if item.Price.IsNegative() {
			return fieldError("items", fmt.Sprintf("price of %s cannot be negative", item.Name))
		}
	}
	order.Total = models.OrderTotal(order.Items)
	order.Status = models.OrderStatusPending
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	log.Infof("order %s placed for table %d, total %s", order.ID, order.TableNumber, order.Total.StringFixed(2))
	return nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *orderService) ListActive(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	dayStart, monthStart := StatsWindow(s.now(), s.loc)
	stats, err := s.repo.Stats(ctx, dayStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}
	return stats, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrInvalidTransition, status)
	}
	err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	log.Infof("order %s moved to %s", id, status)
	return nil
}

func (s *orderService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	log.Warnf("reset removed %d orders", n)
	return n, nil
}
