// Package product provides the Product catalog: named items whose price is
// stored only in protected form.
package product

import (
	"strings"
	"time"
	"unicode/utf8"

	"productdesk/internal/core/apperror"
	"productdesk/internal/core/types"
)

// EntityName identifies products in errors and the audit trail.
const EntityName = "product"

// MaxNameLength is the maximum product name length in characters.
const MaxNameLength = 100

// Product is the decoded view of a stored product.
// Price.Valid is false when the stored row carries no protected price.
type Product struct {
	ID        int64
	Name      string
	Price     types.OptionalMoney
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Record is the persisted form of a product. EncryptedPrice is opaque outside
// the price codec.
type Record struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	EncryptedPrice string    `db:"encrypted_price"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// CreateInput carries the fields of a new product.
type CreateInput struct {
	Name  string
	Price types.OptionalMoney
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name  *string
	Price *types.Money
}

// Validate checks the input and returns it with the name normalized.
func (in CreateInput) Validate() (CreateInput, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return in, err
	}
	in.Name = name

	if !in.Price.Valid {
		return in, apperror.NewValidation("price is required").
			WithDetail("field", "price")
	}
	if err := validatePrice(in.Price.Decimal); err != nil {
		return in, err
	}
	return in, nil
}

// Validate checks the patch and returns it with the name normalized.
func (p Patch) Validate() (Patch, error) {
	if p.Name == nil && p.Price == nil {
		return p, apperror.NewValidation("nothing to update: name or price is required")
	}

	if p.Name != nil {
		name, err := normalizeName(*p.Name)
		if err != nil {
			return p, err
		}
		p.Name = &name
	}

	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return p, err
		}
	}
	return p, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", apperror.NewValidation("name is too long").
			WithDetail("field", "name").
			WithDetail("max_length", MaxNameLength)
	}
	return name, nil
}

func validatePrice(price types.Money) error {
	if !price.IsPositive() {
		return apperror.NewValidation("price must be greater than zero").
			WithDetail("field", "price")
	}
	if err := types.CheckPrecision(price); err != nil {
		return apperror.NewValidation("price "+err.Error()).
			WithDetail("field", "price")
	}
	return nil
}

// ValidateID rejects identifiers the store can never have assigned.
func ValidateID(id int64) error {
	if id <= 0 {
		return apperror.NewValidation("id must be a positive integer").
			WithDetail("field", "id").
			WithDetail("value", id)
	}
	return nil
}
