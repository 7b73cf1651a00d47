// Package cart holds the customer's selected menu items until checkout.
package cart

import (
	"oona/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	MenuItemID uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   *string         `json:"image_url,omitempty"`
	Quantity   int             `json:"quantity"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart keeps entries in insertion order. Every entry has quantity > 0.
type Cart struct {
	Items []Item `json:"items"`
}

func New() *Cart {
	return &Cart{Items: []Item{}}
}

func (c *Cart) index(id uuid.UUID) int {
	for i, item := range c.Items {
		if item.MenuItemID == id {
			return i
		}
	}
	return -1
}

// Add inserts item with quantity 1. It returns false and changes nothing
// when the item is already in the cart.
func (c *Cart) Add(item *models.MenuItem) bool {
	if c.index(item.ID) >= 0 {
		return false
	}
	c.Items = append(c.Items, Item{
		MenuItemID: item.ID,
		Name:       item.Name,
		Category:   item.Category,
		Price:      item.Price,
		ImageURL:   item.ImageURL,
		Quantity:   1,
	})
	return true
}

// UpdateQuantity sets an absolute quantity; quantity <= 0 removes the entry.
func (c *Cart) UpdateQuantity(id uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}
	if i := c.index(id); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Remove(id uuid.UUID) {
	if i := c.index(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = []Item{}
}

func (c *Cart) Get(id uuid.UUID) (Item, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// Quantity returns 0 for items not in the cart.
func (c *Cart) Quantity(id uuid.UUID) int {
	item, _ := c.Get(id)
	return item.Quantity
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Lines snapshots the entries as order line items.
func (c *Cart) Lines() []models.OrderItem {
	lines := make([]models.OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, models.OrderItem{
			ID:       item.MenuItemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return lines
}

// View is the JSON shape returned to the cart page.
type View struct {
	Items     []Item          `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

func (c *Cart) View() View {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return View{Items: items, ItemCount: c.ItemCount(), Total: c.Total()}
}
