package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"oona/internal/models"

	"github.com/labstack/gommon/log"
)

const ConfirmationPath = "/menu/success"

// TableNumber accepts either a JSON string or a JSON number.
type TableNumber string

func (t *TableNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TableNumber(s)
		return nil
	}
	if string(data) == "null" {
		*t = ""
		return nil
	}
	*t = TableNumber(data)
	return nil
}

// Parse requires a positive integer.
func (t TableNumber) Parse() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(t)))
	if err != nil || n <= 0 {
		return 0, ErrInvalidTableNumber
	}
	return n, nil
}

type CheckoutRequest struct {
	TableNumber   TableNumber `json:"table_number" form:"table_number"`
	CustomerNotes string      `json:"customer_notes" form:"customer_notes"`
}

type CheckoutResult struct {
	Order    *models.Order `json:"order"`
	Redirect string        `json:"redirect"`
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	cartSvc  CartService
	orderSvc OrderService
}

func NewCheckoutService(cartSvc CartService, orderSvc OrderService) CheckoutService {
	return &checkoutService{cartSvc: cartSvc, orderSvc: orderSvc}
}

// PlaceOrder snapshots the session's cart into a pending order. The cart is
// cleared only after the order is stored; on failure it is left untouched.
func (s *checkoutService) PlaceOrder(ctx context.Context, sessionID string, req CheckoutRequest) (*CheckoutResult, error) {
	c, err := s.cartSvc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	tableNumber, err := req.TableNumber.Parse()
	if err != nil {
		return nil, err
	}

	notes, err := NormalizeNotes(req.CustomerNotes)
	if err != nil {
		return nil, err
	}

	order := models.NewOrder(tableNumber, c.Lines(), notes)
	if err := s.orderSvc.Create(ctx, order); err != nil {
		log.Errorf("checkout failed for cart session %s: %v", sessionID, err)
		return nil, err
	}

	if err := s.cartSvc.Clear(ctx, sessionID); err != nil {
		log.Warnf("order %s placed but cart %s not cleared: %v", order.ID, sessionID, err)
	}
	return &CheckoutResult{Order: order, Redirect: ConfirmationPath}, nil
}
