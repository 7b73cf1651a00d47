package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	Price       decimal.Decimal `json:"price" db:"price"`
	ImageURL    *string         `json:"image_url,omitempty" db:"image_url"`
	Available   bool            `json:"available" db:"available"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// MenuItemForm is the shared create/edit form. Price stays a string until validated.
type MenuItemForm struct {
	Name        string  `json:"name" form:"name"`
	Description string  `json:"description" form:"description"`
	Category    string  `json:"category" form:"category"`
	Price       string  `json:"price" form:"price"`
	ImageURL    *string `json:"image_url,omitempty" form:"image_url"`
	Available   *bool   `json:"available,omitempty" form:"available"`
}

// MenuBrowseResult is the filtered menu plus the category choices.
type MenuBrowseResult struct {
	Items      []*MenuItem `json:"items"`
	Categories []string    `json:"categories"`
	Search     string      `json:"search,omitempty"`
	Category   string      `json:"category"`
}
