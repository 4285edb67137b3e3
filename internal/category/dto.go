package category

import (
	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
)

type CreateCategoryDTO struct {
	Name  string      `json:"name"`
	Type  ledger.Type `json:"type"`
	Color string      `json:"color,omitempty"`
	Icon  string      `json:"icon,omitempty"`
}

func (d CreateCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("type", d.Type).LedgerType()
	v.Field("color", d.Color).HexColor()
	v.Field("icon", d.Icon).MaxLength(16)
	return v.Validate()
}

// UpdateCategoryDTO changes only the fields that are set. The ledger type is fixed at creation.
type UpdateCategoryDTO struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (d UpdateCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(100)
	}
	if d.Color != nil {
		v.Field("color", *d.Color).HexColor()
	}
	if d.Icon != nil {
		v.Field("icon", *d.Icon).MaxLength(16)
	}
	return v.Validate()
}

type ListFilter struct {
	Type            ledger.Type
	IncludeInactive bool
}

type CategoryResponse struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Type     ledger.Type `json:"type"`
	Color    string      `json:"color"`
	Icon     string      `json:"icon"`
	IsActive bool        `json:"is_active"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
