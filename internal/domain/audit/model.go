// Package audit records who changed which catalog entity and how.
package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CompressionAlgo specifies how Entry.Changes was stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// Entry represents a single audit log entry.
// Exactly one of Changes and ChangesCompressed is populated when stored.
type Entry struct {
	ID                int64           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          int64           `db:"entity_id"`
	Action            Action          `db:"action"`
	UserID            string          `db:"user_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// Repository persists audit entries. Append must use the transaction in ctx
// when there is one so the entry commits together with the change it describes.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	// History returns entries for one entity, newest first.
	History(ctx context.Context, entityType string, entityID int64, limit int) ([]Entry, error)
}
