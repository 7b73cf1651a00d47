package services

import (
	"context"
	"fmt"
	"time"

	"oona/internal/caching"
	"oona/internal/cart"

	"github.com/google/uuid"
)

const cartTTL = 12 * time.Hour

// CartService keeps one cart per cart session. Carts live in Redis only and
// never reach the order store before checkout.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	AddMenuItem(ctx context.Context, sessionID string, menuItemID uuid.UUID) (*cart.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, menuItemID uuid.UUID, quantity int) (*cart.Cart, error)
	Remove(ctx context.Context, sessionID string, menuItemID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	cacheSvc caching.CacheService
	menuSvc  MenuService
}

func NewCartService(cacheSvc caching.CacheService, menuSvc MenuService) CartService {
	return &cartService{cacheSvc: cacheSvc, menuSvc: menuSvc}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.cacheSvc.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if c == nil {
		c = cart.New()
	}
	return c, nil
}

func (s *cartService) save(ctx context.Context, sessionID string, c *cart.Cart) (*cart.Cart, error) {
	if err := s.cacheSvc.SetCart(ctx, sessionID, c, cartTTL); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// AddMenuItem adds the item with quantity 1, or bumps its quantity by one.
func (s *cartService) AddMenuItem(ctx context.Context, sessionID string, menuItemID uuid.UUID) (*cart.Cart, error) {
	item, err := s.menuSvc.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrMenuItemUnavailable
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !c.Add(item) {
		c.UpdateQuantity(item.ID, c.Quantity(item.ID)+1)
	}
	return s.save(ctx, sessionID, c)
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, menuItemID uuid.UUID, quantity int) (*cart.Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.UpdateQuantity(menuItemID, quantity)
	return s.save(ctx, sessionID, c)
}

func (s *cartService) Remove(ctx context.Context, sessionID string, menuItemID uuid.UUID) (*cart.Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Remove(menuItemID)
	return s.save(ctx, sessionID, c)
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.cacheSvc.DeleteCart(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
