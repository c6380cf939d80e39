// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"productdesk/internal/core/apperror"
	"productdesk/internal/domain/catalogs/product"
	"productdesk/internal/infrastructure/storage/postgres"
	"productdesk/internal/infrastructure/storage/sqlutil"
)

const productTable = "products"

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo is the PostgreSQL implementation of product.Repository.
type ProductRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager:  txManager,
		selectCols: sqlutil.ExtractDBColumns[product.Record](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *ProductRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ProductRepo) returning() string {
	return "RETURNING " + strings.Join(r.selectCols, ", ")
}

func (r *ProductRepo) searchQuery(term string) squirrel.SelectBuilder {
	q := r.Builder().
		Select(r.selectCols...).
		From(productTable).
		OrderBy("id")

	if term != "" {
		q = q.Where(squirrel.Expr("name ILIKE ? ESCAPE '"+sqlutil.LikeEscape+"'", sqlutil.ContainsPattern(term)))
	}
	return q
}

// Search returns products whose name contains term, ignoring case.
func (r *ProductRepo) Search(ctx context.Context, term string) ([]product.Record, error) {
	sql, args, err := r.searchQuery(term).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	records := make([]product.Record, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("search %s: %w", productTable, err)
	}
	return records, nil
}

// GetByID retrieves a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (product.Record, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(productTable).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return product.Record{}, fmt.Errorf("build query: %w", err)
	}

	var rec product.Record
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return product.Record{}, apperror.NewNotFound(product.EntityName, id)
		}
		return product.Record{}, fmt.Errorf("get by id: %w", err)
	}
	return rec, nil
}

func (r *ProductRepo) insertQuery(rec product.Record) squirrel.InsertBuilder {
	return r.Builder().
		Insert(productTable).
		SetMap(sqlutil.StructToMap(rec, "id")).
		Suffix(r.returning())
}

// Insert stores rec and returns the stored row with its assigned id.
func (r *ProductRepo) Insert(ctx context.Context, rec product.Record) (product.Record, error) {
	sql, args, err := r.insertQuery(rec).ToSql()
	if err != nil {
		return product.Record{}, fmt.Errorf("build insert: %w", err)
	}

	var created product.Record
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &created, sql, args...); err != nil {
		return product.Record{}, fmt.Errorf("insert %s: %w", productTable, err)
	}
	return created, nil
}

func (r *ProductRepo) updateQuery(rec product.Record) squirrel.UpdateBuilder {
	return r.Builder().
		Update(productTable).
		SetMap(sqlutil.StructToMap(rec, "id", "created_at")).
		Where(squirrel.Eq{"id": rec.ID}).
		Suffix(r.returning())
}

// Update overwrites the mutable columns of rec.ID.
func (r *ProductRepo) Update(ctx context.Context, rec product.Record) (product.Record, error) {
	sql, args, err := r.updateQuery(rec).ToSql()
	if err != nil {
		return product.Record{}, fmt.Errorf("build update: %w", err)
	}

	var updated product.Record
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &updated, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return product.Record{}, apperror.NewNotFound(product.EntityName, rec.ID)
		}
		return product.Record{}, fmt.Errorf("update %s: %w", productTable, err)
	}
	return updated, nil
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.Builder().
		Delete(productTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", productTable, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(product.EntityName, id)
	}
	return nil
}
