package category

import (
	"strings"
	"time"

	categoryDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
)

const (
	DefaultColor = "#808080"
	DefaultIcon  = "❓"
)

type Category struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Type      ledger.Type `json:"type"`
	Color     string      `json:"color"`
	Icon      string      `json:"icon"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (c *Category) IsActiveCategory() bool {
	return c.IsActive
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Type:     c.Type,
		Color:    c.Color,
		Icon:     c.Icon,
		IsActive: c.IsActive,
	}
}

func (c *Category) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

func (c *Category) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// NewCategory trims the name and fills a missing color or icon with the defaults.
func NewCategory(name string, t ledger.Type, color, icon string) *Category {
	now := time.Now()
	c := &Category{
		Name:      strings.TrimSpace(name),
		Type:      t,
		Color:     strings.TrimSpace(color),
		Icon:      strings.TrimSpace(icon),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.Icon == "" {
		c.Icon = DefaultIcon
	}
	return c
}

// Defaults is the starter set of categories the seed command installs.
func Defaults() []*Category {
	return []*Category{
		NewCategory("Salary", ledger.Income, "#4CAF50", "💼"),
		NewCategory("Gift", ledger.Income, "#FF9800", "🎁"),
		NewCategory("Food", ledger.Expense, "#FF5722", "🍔"),
		NewCategory("Party", ledger.Expense, "#E91E63", "🎉"),
		NewCategory("Hobby", ledger.Expense, "#9C27B0", "🎨"),
		NewCategory("Clothes", ledger.Expense, "#3F51B5", "👕"),
		NewCategory("Transport", ledger.Expense, "#03A9F4", "🚗"),
		NewCategory("Home", ledger.Expense, "#009688", "🏠"),
		NewCategory("Other", ledger.Expense, "#607D8B", "📦"),
		NewCategory("Subscription", ledger.Expense, "#795548", "📺"),
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		Icon:      c.Icon,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		Name:      c.Name,
		Type:      ledger.Type(c.Type),
		Color:     c.Color,
		Icon:      c.Icon,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
