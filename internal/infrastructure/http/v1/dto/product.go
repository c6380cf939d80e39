package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"productdesk/internal/core/types"
	"productdesk/internal/domain/audit"
	"productdesk/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
// Price accepts a JSON number or a decimal string.
type CreateProductRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// ToInput converts DTO to domain input. Field rules are checked by the service.
func (r *CreateProductRequest) ToInput() product.CreateInput {
	in := product.CreateInput{Name: r.Name}
	if r.Price != nil {
		in.Price = types.SomeMoney(*r.Price)
	}
	return in
}

// UpdateProductRequest is the request body for PUT and PATCH.
type UpdateProductRequest struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

// ToPatch converts DTO to domain patch.
func (r *UpdateProductRequest) ToPatch() product.Patch {
	return product.Patch{Name: r.Name, Price: r.Price}
}

// --- Response DTOs ---

// ProductResponse is the API representation of a product.
// Price is null when the product has no stored price.
type ProductResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// FromProduct converts domain product to response DTO.
func FromProduct(p product.Product) ProductResponse {
	resp := ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Price.Valid {
		price := p.Price.Decimal
		resp.Price = &price
	}
	return resp
}

// FromProducts converts a slice of products.
func FromProducts(products []product.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = FromProduct(p)
	}
	return out
}

// AuditEntryResponse is one line of a product's history.
type AuditEntryResponse struct {
	ID        int64           `json:"id"`
	Action    audit.Action    `json:"action"`
	UserID    string          `json:"userId"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt time.Time       `json:"createdAt"`
}

// FromAuditEntries converts audit entries to response DTOs.
func FromAuditEntries(entries []audit.Entry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			ID:        e.ID,
			Action:    e.Action,
			UserID:    e.UserID,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}
