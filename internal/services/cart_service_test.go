package services

import (
	"context"
	"testing"

	"oona/internal/cart"
	"oona/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartServiceUnderTest() (*cartService, *MockCacheService, *MockMenuItemRepo) {
	cache := &MockCacheService{}
	repo := &MockMenuItemRepo{}
	menu := NewMenuService(repo, nil, nil, "menu-images")
	return NewCartService(cache, menu).(*cartService), cache, repo
}

func TestCartService_AddTwiceIncrementsQuantity(t *testing.T) {
	svc, cache, repo := newCartServiceUnderTest()
	ctx := context.Background()
	burger := &models.MenuItem{ID: uuid.New(), Name: "Burger", Price: decimal.NewFromInt(150), Available: true}

	stored := cart.New()
	repo.On("GetByID", ctx, burger.ID).Return(burger, nil)
	cache.On("GetCart", ctx, "sess").Return(stored, nil)
	cache.On("SetCart", ctx, "sess", mock.AnythingOfType("*cart.Cart"), cartTTL).Return(nil)

	_, err := svc.AddMenuItem(ctx, "sess", burger.ID)
	require.NoError(t, err)
	c, err := svc.AddMenuItem(ctx, "sess", burger.ID)
	require.NoError(t, err)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Quantity(burger.ID))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(300)))
}

func TestCartService_RejectsUnavailableItem(t *testing.T) {
	svc, cache, repo := newCartServiceUnderTest()
	ctx := context.Background()
	item := &models.MenuItem{ID: uuid.New(), Available: false}
	repo.On("GetByID", ctx, item.ID).Return(item, nil)

	_, err := svc.AddMenuItem(ctx, "sess", item.ID)
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)
	cache.AssertNotCalled(t, "SetCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_MissingCartIsEmpty(t *testing.T) {
	svc, cache, _ := newCartServiceUnderTest()
	ctx := context.Background()
	cache.On("GetCart", ctx, "fresh").Return(nil, nil)

	c, err := svc.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_UpdateQuantityZeroRemoves(t *testing.T) {
	svc, cache, _ := newCartServiceUnderTest()
	ctx := context.Background()
	item := &models.MenuItem{ID: uuid.New(), Name: "Tea", Price: decimal.NewFromInt(20), Available: true}
	stored := cart.New()
	stored.Add(item)

	cache.On("GetCart", ctx, "sess").Return(stored, nil)
	cache.On("SetCart", ctx, "sess", stored, cartTTL).Return(nil)

	c, err := svc.UpdateQuantity(ctx, "sess", item.ID, 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
