package protect

import (
	"fmt"

	"productdesk/internal/core/apperror"
	"productdesk/internal/core/types"
)

// PricePurpose scopes price protection keys.
const PricePurpose = "productdesk.product.price"

// PriceCodec converts a price to its persisted opaque form and back.
// Callers above the storage layer never see the opaque string.
type PriceCodec struct {
	protector Protector
}

// NewPriceCodec creates a codec over protector.
func NewPriceCodec(protector Protector) *PriceCodec {
	return &PriceCodec{protector: protector}
}

// Encode protects price. Repeated calls may yield different strings.
func (c *PriceCodec) Encode(price types.Money) (string, error) {
	protected, err := c.protector.Protect(types.Canonical(price))
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("encode price: %w", err))
	}
	return protected, nil
}

// Decode reverses Encode. An empty value decodes to the absent price;
// anything unreadable is a DECODE_ERROR, never a zero price.
func (c *PriceCodec) Decode(protected string) (types.OptionalMoney, error) {
	if protected == "" {
		return types.NoMoney(), nil
	}

	plaintext, err := c.protector.Unprotect(protected)
	if err != nil {
		return types.NoMoney(), apperror.NewDecode("price", err)
	}

	price, err := types.NewMoneyFromString(plaintext)
	if err != nil {
		return types.NoMoney(), apperror.NewDecode("price", fmt.Errorf("parse decoded price: %w", err))
	}

	return types.SomeMoney(price), nil
}
