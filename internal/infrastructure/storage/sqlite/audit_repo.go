package sqlite

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"productdesk/internal/domain/audit"
	"productdesk/internal/infrastructure/storage/sqlutil"
)

const auditTable = "audit_log"

var _ audit.Repository = (*AuditRepo)(nil)

type auditRow struct {
	ID                int64  `db:"id"`
	EntityType        string `db:"entity_type"`
	EntityID          int64  `db:"entity_id"`
	Action            string `db:"action"`
	UserID            string `db:"user_id"`
	Changes           []byte `db:"changes"`
	ChangesCompressed []byte `db:"changes_compressed"`
	CompressionAlgo   string `db:"compression_algo"`
	CreatedAt         string `db:"created_at"`
}

// AuditRepo stores audit entries in audit_log.
type AuditRepo struct {
	txManager  *TxManager
	selectCols []string
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(txManager *TxManager) *AuditRepo {
	return &AuditRepo{
		txManager:  txManager,
		selectCols: sqlutil.ExtractDBColumns[auditRow](),
	}
}

// Append inserts entry using the transaction in ctx when there is one.
func (r *AuditRepo) Append(ctx context.Context, entry audit.Entry) error {
	var changes, compressed any
	if len(entry.Changes) > 0 {
		changes = string(entry.Changes)
	}
	if len(entry.ChangesCompressed) > 0 {
		compressed = entry.ChangesCompressed
	}

	query, args, err := builder().
		Insert(auditTable).
		SetMap(map[string]any{
			"entity_type":        entry.EntityType,
			"entity_id":          entry.EntityID,
			"action":             string(entry.Action),
			"user_id":            entry.UserID,
			"changes":            changes,
			"changes_compressed": compressed,
			"compression_algo":   string(entry.CompressionAlgo),
			"created_at":         formatTime(entry.CreatedAt),
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetWriter(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", auditTable, err)
	}
	return nil
}

// History returns entries for one entity, newest first.
func (r *AuditRepo) History(ctx context.Context, entityType string, entityID int64, limit int) ([]audit.Entry, error) {
	query, args, err := builder().
		Select(r.selectCols...).
		From(auditTable).
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []auditRow
	if err := sqlscan.Select(ctx, r.txManager.GetReader(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query %s history: %w", auditTable, err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		createdAt, err := parseTime(row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at of audit entry %d: %w", row.ID, err)
		}
		entries = append(entries, audit.Entry{
			ID:                row.ID,
			EntityType:        row.EntityType,
			EntityID:          row.EntityID,
			Action:            audit.Action(row.Action),
			UserID:            row.UserID,
			Changes:           row.Changes,
			ChangesCompressed: row.ChangesCompressed,
			CompressionAlgo:   audit.CompressionAlgo(row.CompressionAlgo),
			CreatedAt:         createdAt,
		})
	}
	return entries, nil
}
