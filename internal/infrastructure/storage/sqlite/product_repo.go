package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"productdesk/internal/core/apperror"
	"productdesk/internal/domain/catalogs/product"
	"productdesk/internal/infrastructure/storage/sqlutil"
)

const productTable = "products"

var _ product.Repository = (*ProductRepo)(nil)

// productRow mirrors product.Record with SQLite's TEXT timestamps.
type productRow struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	EncryptedPrice string `db:"encrypted_price"`
	CreatedAt      string `db:"created_at"`
	UpdatedAt      string `db:"updated_at"`
}

func toProductRow(rec product.Record) productRow {
	return productRow{
		ID:             rec.ID,
		Name:           rec.Name,
		EncryptedPrice: rec.EncryptedPrice,
		CreatedAt:      formatTime(rec.CreatedAt),
		UpdatedAt:      formatTime(rec.UpdatedAt),
	}
}

func (r productRow) record() (product.Record, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return product.Record{}, fmt.Errorf("parse created_at of product %d: %w", r.ID, err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return product.Record{}, fmt.Errorf("parse updated_at of product %d: %w", r.ID, err)
	}
	return product.Record{
		ID:             r.ID,
		Name:           r.Name,
		EncryptedPrice: r.EncryptedPrice,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

// ProductRepo is the SQLite implementation of product.Repository.
type ProductRepo struct {
	txManager  *TxManager
	selectCols []string
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(txManager *TxManager) *ProductRepo {
	return &ProductRepo{
		txManager:  txManager,
		selectCols: sqlutil.ExtractDBColumns[productRow](),
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func (r *ProductRepo) returning() string {
	return "RETURNING " + strings.Join(r.selectCols, ", ")
}

// Search returns products whose name contains term. SQLite's LIKE folds
// case for ASCII letters only.
func (r *ProductRepo) Search(ctx context.Context, term string) ([]product.Record, error) {
	q := builder().
		Select(r.selectCols...).
		From(productTable).
		OrderBy("id")
	if term != "" {
		q = q.Where(squirrel.Expr("name LIKE ? ESCAPE '"+sqlutil.LikeEscape+"'", sqlutil.ContainsPattern(term)))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []productRow
	if err := sqlscan.Select(ctx, r.txManager.GetReader(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search %s: %w", productTable, err)
	}

	records := make([]product.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetByID retrieves a product by id.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (product.Record, error) {
	query, args, err := builder().
		Select(r.selectCols...).
		From(productTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return product.Record{}, fmt.Errorf("build query: %w", err)
	}

	var row productRow
	if err := sqlscan.Get(ctx, r.txManager.GetReader(ctx), &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return product.Record{}, apperror.NewNotFound(product.EntityName, id)
		}
		return product.Record{}, fmt.Errorf("get by id: %w", err)
	}
	return row.record()
}

// Insert stores rec and returns the stored row with its assigned id.
func (r *ProductRepo) Insert(ctx context.Context, rec product.Record) (product.Record, error) {
	query, args, err := builder().
		Insert(productTable).
		SetMap(sqlutil.StructToMap(toProductRow(rec), "id")).
		Suffix(r.returning()).
		ToSql()
	if err != nil {
		return product.Record{}, fmt.Errorf("build insert: %w", err)
	}

	var row productRow
	if err := sqlscan.Get(ctx, r.txManager.GetWriter(ctx), &row, query, args...); err != nil {
		return product.Record{}, fmt.Errorf("insert %s: %w", productTable, err)
	}
	return row.record()
}

// Update overwrites the mutable columns of rec.ID.
func (r *ProductRepo) Update(ctx context.Context, rec product.Record) (product.Record, error) {
	query, args, err := builder().
		Update(productTable).
		SetMap(sqlutil.StructToMap(toProductRow(rec), "id", "created_at")).
		Where(squirrel.Eq{"id": rec.ID}).
		Suffix(r.returning()).
		ToSql()
	if err != nil {
		return product.Record{}, fmt.Errorf("build update: %w", err)
	}

	var row productRow
	if err := sqlscan.Get(ctx, r.txManager.GetWriter(ctx), &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return product.Record{}, apperror.NewNotFound(product.EntityName, rec.ID)
		}
		return product.Record{}, fmt.Errorf("update %s: %w", productTable, err)
	}
	return row.record()
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	query, args, err := builder().
		Delete(productTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetWriter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", productTable, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound(product.EntityName, id)
	}
	return nil
}
