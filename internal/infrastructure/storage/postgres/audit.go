package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"productdesk/internal/domain/audit"
	"productdesk/internal/infrastructure/storage/sqlutil"
)

const auditTable = "audit_log"

var _ audit.Repository = (*AuditRepo)(nil)

// AuditRepo stores audit entries in audit_log.
type AuditRepo struct {
	txManager  *TxManager
	selectCols []string
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(txManager *TxManager) *AuditRepo {
	return &AuditRepo{
		txManager:  txManager,
		selectCols: sqlutil.ExtractDBColumns[audit.Entry](),
	}
}

// Append inserts entry using the transaction in ctx when there is one.
func (r *AuditRepo) Append(ctx context.Context, entry audit.Entry) error {
	sql, args, err := r.appendQuery(entry).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", auditTable, err)
	}
	return nil
}

func (r *AuditRepo) appendQuery(entry audit.Entry) squirrel.InsertBuilder {
	data := sqlutil.StructToMap(entry, "id")
	// JSONB and BYTEA columns stay NULL for the representation not in use.
	if len(entry.Changes) == 0 {
		data["changes"] = nil
	} else {
		data["changes"] = string(entry.Changes)
	}
	if len(entry.ChangesCompressed) == 0 {
		data["changes_compressed"] = nil
	}

	return builder().Insert(auditTable).SetMap(data)
}

// History returns entries for one entity, newest first.
func (r *AuditRepo) History(ctx context.Context, entityType string, entityID int64, limit int) ([]audit.Entry, error) {
	q := builder().
		Select(r.selectCols...).
		From(auditTable).
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []audit.Entry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("query %s history: %w", auditTable, err)
	}
	return entries, nil
}

// builder returns a squirrel builder with PostgreSQL placeholder format.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
