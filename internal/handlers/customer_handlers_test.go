package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oona/internal/cart"
	"oona/internal/common"
	"oona/internal/models"
	"oona/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type customerServer struct {
	e        *echo.Echo
	menu     *MockMenuService
	carts    *MockCartService
	checkout *MockCheckoutService
	orders   *MockOrderService
}

func newCustomerServer() *customerServer {
	s := &customerServer{
		e:        echo.New(),
		menu:     new(MockMenuService),
		carts:    new(MockCartService),
		checkout: new(MockCheckoutService),
		orders:   new(MockOrderService),
	}
	menuHandlers := NewMenuHandlers(s.menu)
	cartHandlers := NewCartHandlers(s.carts)
	orderHandlers := NewOrderHandlers(s.checkout, s.orders)

	s.e.GET("/menu", menuHandlers.BrowseMenu)
	s.e.GET("/menu/items/:id", menuHandlers.GetMenuItem)
	s.e.GET("/menu/cart", cartHandlers.GetCart)
	s.e.POST("/menu/cart/items", cartHandlers.AddCartItem)
	s.e.PATCH("/menu/cart/items/:id", cartHandlers.UpdateCartItem)
	s.e.POST("/menu/checkout", orderHandlers.Checkout)
	s.e.GET("/menu/success/:id", orderHandlers.GetConfirmation)
	return s
}

func (s *customerServer) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func burger() *models.MenuItem {
	return &models.MenuItem{
		ID:        uuid.New(),
		Name:      "Burger",
		Category:  "Mains",
		Price:     decimal.NewFromInt(150),
		Available: true,
	}
}

func TestBrowseMenu_PassesFilters(t *testing.T) {
	s := newCustomerServer()
	item := burger()
	s.menu.On("Browse", mock.Anything, "burg", "Mains").Return(&models.MenuBrowseResult{
		Items:      []*models.MenuItem{item},
		Categories: []string{"All", "Mains"},
		Search:     "burg",
		Category:   "Mains",
	}, nil)

	rec := s.do(http.MethodGet, "/menu?search=burg&category=Mains", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var result models.MenuBrowseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Burger", result.Items[0].Name)
	assert.Equal(t, []string{"All", "Mains"}, result.Categories)
	s.menu.AssertExpectations(t)
}

func TestGetMenuItem(t *testing.T) {
	s := newCustomerServer()

	rec := s.do(http.MethodGet, "/menu/items/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Details, "id")

	missing := uuid.New()
	s.menu.On("GetByID", mock.Anything, missing).Return(nil, services.ErrMenuItemNotFound)
	rec = s.do(http.MethodGet, "/menu/items/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestGetCart_WithoutCookieIsEmpty(t *testing.T) {
	s := newCustomerServer()

	rec := s.do(http.MethodGet, "/menu/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var view cart.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.ItemCount)
	s.carts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAddCartItem_IssuesCartCookie(t *testing.T) {
	s := newCustomerServer()
	item := burger()
	c := cart.New()
	c.Add(item)
	s.carts.On("AddMenuItem", mock.Anything, mock.AnythingOfType("string"), item.ID).Return(c, nil)

	rec := s.do(http.MethodPost, "/menu/cart/items", `{"menu_item_id":"`+item.ID.String()+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var view cart.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 1, view.ItemCount)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(150)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CartCookieName, cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)
}

func TestAddCartItem_ReusesExistingCookie(t *testing.T) {
	s := newCustomerServer()
	item := burger()
	sessionID := uuid.NewString()
	s.carts.On("AddMenuItem", mock.Anything, sessionID, item.ID).Return(cart.New(), nil)

	rec := s.do(http.MethodPost, "/menu/cart/items", `{"menu_item_id":"`+item.ID.String()+`"}`,
		&http.Cookie{Name: CartCookieName, Value: sessionID})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	s.carts.AssertExpectations(t)
}

func TestAddCartItem_Errors(t *testing.T) {
	item := burger()
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{name: "invalid id", body: `{"menu_item_id":"nope"}`, code: http.StatusBadRequest},
		{name: "unavailable", body: `{"menu_item_id":"` + item.ID.String() + `"}`, err: services.ErrMenuItemUnavailable, code: http.StatusConflict},
		{name: "unknown item", body: `{"menu_item_id":"` + item.ID.String() + `"}`, err: services.ErrMenuItemNotFound, code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newCustomerServer()
			if tt.err != nil {
				s.carts.On("AddMenuItem", mock.Anything, mock.Anything, item.ID).Return(nil, tt.err)
			}
			rec := s.do(http.MethodPost, "/menu/cart/items", tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestUpdateCartItem_RequiresQuantity(t *testing.T) {
	s := newCustomerServer()
	id := uuid.New()

	rec := s.do(http.MethodPatch, "/menu/cart/items/"+id.String(), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Details, "quantity")

	sessionID := uuid.NewString()
	s.carts.On("UpdateQuantity", mock.Anything, sessionID, id, 0).Return(cart.New(), nil)
	rec = s.do(http.MethodPatch, "/menu/cart/items/"+id.String(), `{"quantity":0}`,
		&http.Cookie{Name: CartCookieName, Value: sessionID})
	assert.Equal(t, http.StatusOK, rec.Code)
	s.carts.AssertExpectations(t)
}

func TestCheckout(t *testing.T) {
	sessionID := uuid.NewString()
	cookie := &http.Cookie{Name: CartCookieName, Value: sessionID}

	t.Run("no cart cookie", func(t *testing.T) {
		s := newCustomerServer()
		rec := s.do(http.MethodPost, "/menu/checkout", `{"table_number":"5"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "cart")
		s.checkout.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid table number", func(t *testing.T) {
		s := newCustomerServer()
		s.checkout.On("PlaceOrder", mock.Anything, sessionID, services.CheckoutRequest{TableNumber: "abc"}).
			Return(nil, services.ErrInvalidTableNumber)
		rec := s.do(http.MethodPost, "/menu/checkout", `{"table_number":"abc"}`, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, services.ErrInvalidTableNumber.Error(), decodeError(t, rec).Error.Details["table_number"])
	})

	t.Run("places order", func(t *testing.T) {
		s := newCustomerServer()
		order := models.NewOrder(5, []models.OrderItem{{ID: uuid.New(), Name: "Burger", Price: decimal.NewFromInt(150), Quantity: 2}}, nil)
		req := services.CheckoutRequest{TableNumber: "5", CustomerNotes: "no onions"}
		s.checkout.On("PlaceOrder", mock.Anything, sessionID, req).
			Return(&services.CheckoutResult{Order: order, Redirect: services.ConfirmationPath}, nil)

		rec := s.do(http.MethodPost, "/menu/checkout", `{"table_number":5,"customer_notes":"no onions"}`, cookie)

		require.Equal(t, http.StatusCreated, rec.Code)
		var result services.CheckoutResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, services.ConfirmationPath, result.Redirect)
		assert.Equal(t, models.OrderStatusPending, result.Order.Status)
		assert.True(t, result.Order.Total.Equal(decimal.NewFromInt(300)))
		s.checkout.AssertExpectations(t)
	})
}

func TestGetConfirmation(t *testing.T) {
	s := newCustomerServer()
	order := models.NewOrder(3, []models.OrderItem{{ID: uuid.New(), Name: "Tea", Price: decimal.NewFromInt(40), Quantity: 1}}, nil)
	s.orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	missing := uuid.New()
	s.orders.On("GetByID", mock.Anything, missing).Return(nil, services.ErrOrderNotFound)

	rec := s.do(http.MethodGet, "/menu/success/"+order.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.TableNumber)

	rec = s.do(http.MethodGet, "/menu/success/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
