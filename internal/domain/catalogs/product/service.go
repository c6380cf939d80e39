package product

import (
	"context"
	"fmt"
	"time"

	"productdesk/internal/core/apperror"
	appctx "productdesk/internal/core/context"
	"productdesk/internal/core/protect"
	"productdesk/internal/core/security"
	"productdesk/internal/core/tx"
	"productdesk/internal/domain/audit"
	"productdesk/pkg/logger"
)

// DefaultHistoryLimit bounds History when the caller passes a non-positive limit.
const DefaultHistoryLimit = 50

// Service runs every product operation as validate, authorize, then persist.
// Prices cross the repository boundary only through the codec.
type Service struct {
	repo      Repository
	gate      *security.Gate
	codec     *protect.PriceCodec
	txManager tx.Manager
	audit     *audit.Recorder
	now       func() time.Time
}

// NewService creates a new Product service.
func NewService(
	repo Repository,
	gate *security.Gate,
	codec *protect.PriceCodec,
	txManager tx.Manager,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		repo:      repo,
		gate:      gate,
		codec:     codec,
		txManager: txManager,
		audit:     recorder,
		now:       time.Now,
	}
}

// List returns every product.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.Search(ctx, "")
}

// Search returns products whose name contains term case-insensitively.
func (s *Service) Search(ctx context.Context, term string) ([]Product, error) {
	if err := s.authorize(ctx, security.OperationRead); err != nil {
		return nil, err
	}

	records, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, storeErr(err)
	}

	products := make([]Product, 0, len(records))
	for _, rec := range records {
		p, err := s.decode(rec)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if err := ValidateID(id); err != nil {
		return Product{}, err
	}
	if err := s.authorize(ctx, security.OperationRead); err != nil {
		return Product{}, err
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, storeErr(err)
	}
	return s.decode(rec)
}

// Create stores a new product with its price protected.
func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	in, err := in.Validate()
	if err != nil {
		return Product{}, err
	}
	if err := s.authorize(ctx, security.OperationCreate); err != nil {
		return Product{}, err
	}

	encrypted, err := s.codec.Encode(in.Price.Decimal)
	if err != nil {
		return Product{}, err
	}

	now := s.now().UTC()
	var created Record
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		created, err = s.repo.Insert(ctx, Record{
			Name:           in.Name,
			EncryptedPrice: encrypted,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return fmt.Errorf("insert %s: %w", EntityName, err)
		}

		return s.record(ctx, created.ID, audit.ActionCreate, map[string]any{
			"name":  created.Name,
			"price": "set",
		})
	})
	if err != nil {
		return Product{}, storeErr(err)
	}

	logger.Info(ctx, "product created", "product_id", created.ID)
	return Product{
		ID:        created.ID,
		Name:      created.Name,
		Price:     in.Price,
		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
	}, nil
}

// Update applies patch to an existing product. A new price is re-encoded in
// the same transaction that writes it.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Product, error) {
	if err := ValidateID(id); err != nil {
		return Product{}, err
	}
	patch, err := patch.Validate()
	if err != nil {
		return Product{}, err
	}
	if err := s.authorize(ctx, security.OperationUpdate); err != nil {
		return Product{}, err
	}

	var result Product
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		next := current
		changes := make(map[string]any, 2)
		if patch.Name != nil && *patch.Name != current.Name {
			next.Name = *patch.Name
			changes["name"] = map[string]any{"old": current.Name, "new": next.Name}
		}
		if patch.Price != nil {
			next.EncryptedPrice, err = s.codec.Encode(*patch.Price)
			if err != nil {
				return err
			}
			changes["price"] = "changed"
		}
		next.UpdatedAt = s.now().UTC()

		updated, err := s.repo.Update(ctx, next)
		if err != nil {
			return fmt.Errorf("update %s: %w", EntityName, err)
		}

		// Decode inside the transaction so an unreadable price rolls the change back.
		result, err = s.decode(updated)
		if err != nil {
			return err
		}

		return s.record(ctx, id, audit.ActionUpdate, changes)
	})
	if err != nil {
		return Product{}, storeErr(err)
	}

	logger.Info(ctx, "product updated", "product_id", id)
	return result, nil
}

// Delete removes a product. Deleting an absent id reports NotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := s.authorize(ctx, security.OperationDelete); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", EntityName, err)
		}
		return s.record(ctx, id, audit.ActionDelete, map[string]any{"name": current.Name})
	})
	if err != nil {
		return storeErr(err)
	}

	logger.Info(ctx, "product deleted", "product_id", id)
	return nil
}

// History returns the audit trail of a product, newest first. The product
// itself may already be deleted.
func (s *Service) History(ctx context.Context, id int64, limit int) ([]audit.Entry, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, security.OperationRead); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []audit.Entry{}, nil
	}
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	entries, err := s.audit.History(ctx, EntityName, id, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

func (s *Service) authorize(ctx context.Context, op security.Operation) error {
	user := appctx.GetUser(ctx)
	if s.gate.Authorize(user, op) {
		return nil
	}

	if user == nil {
		return apperror.NewUnauthorized("authentication required").
			WithDetail("operation", string(op))
	}
	logger.Warn(ctx, "product access denied", "operation", op, "roles", user.Roles)
	return apperror.NewForbidden("insufficient permissions").
		WithDetail("operation", string(op))
}

func (s *Service) decode(rec Record) (Product, error) {
	price, err := s.codec.Decode(rec.EncryptedPrice)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok {
			return Product{}, appErr.WithDetail("id", rec.ID)
		}
		return Product{}, err
	}
	return Product{
		ID:        rec.ID,
		Name:      rec.Name,
		Price:     price,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (s *Service) record(ctx context.Context, id int64, action audit.Action, changes map[string]any) error {
	if s.audit == nil {
		return nil
	}
	if err := s.audit.Record(ctx, EntityName, id, action, changes); err != nil {
		return fmt.Errorf("audit %s %d: %w", action, id, err)
	}
	return nil
}

// storeErr passes domain errors through and classifies anything else as a
// storage failure.
func storeErr(err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewDatabase(err)
}
