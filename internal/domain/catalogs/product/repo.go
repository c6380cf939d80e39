package product

import "context"

// Repository defines the interface for Product persistence.
// Implementations use the transaction in ctx when present and report absent
// rows as apperror NotFound.
type Repository interface {
	// Search returns products whose name contains term, ignoring case, ordered by id.
	// An empty term matches every product.
	Search(ctx context.Context, term string) ([]Record, error)

	GetByID(ctx context.Context, id int64) (Record, error)

	// Insert stores rec and returns it with the assigned id.
	Insert(ctx context.Context, rec Record) (Record, error)

	// Update overwrites name, encrypted price and updated_at of rec.ID.
	Update(ctx context.Context, rec Record) (Record, error)

	Delete(ctx context.Context, id int64) error
}
