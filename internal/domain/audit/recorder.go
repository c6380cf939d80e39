package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "productdesk/internal/core/context"
)

// DefaultCompressThreshold is the payload size above which changes are zstd-compressed.
const DefaultCompressThreshold = 10 * 1024

// Recorder builds audit entries from the request context and hands them to a Repository.
type Recorder struct {
	repo              Repository
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
	now               func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithCompressThreshold overrides DefaultCompressThreshold.
func WithCompressThreshold(bytes int) Option {
	return func(r *Recorder) { r.compressThreshold = bytes }
}

// NewRecorder creates a new audit recorder.
func NewRecorder(repo Repository, opts ...Option) (*Recorder, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	r := &Recorder{
		repo:              repo,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Record appends an entry for the given entity change. The acting user is taken from ctx.
func (r *Recorder) Record(ctx context.Context, entityType string, entityID int64, action Action, changes map[string]any) error {
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	entry := Entry{
		EntityType:      entityType,
		EntityID:        entityID,
		Action:          action,
		UserID:          appctx.GetUserID(ctx),
		Changes:         changesJSON,
		CompressionAlgo: CompressionNone,
		CreatedAt:       r.now().UTC(),
	}

	if len(changesJSON) > r.compressThreshold {
		entry.ChangesCompressed = r.encoder.EncodeAll(changesJSON, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}

	return r.repo.Append(ctx, entry)
}

// History returns the audit trail of one entity with changes decompressed.
func (r *Recorder) History(ctx context.Context, entityType string, entityID int64, limit int) ([]Entry, error) {
	entries, err := r.repo.History(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		e := &entries[i]
		if e.CompressionAlgo != CompressionZstd || len(e.ChangesCompressed) == 0 {
			continue
		}
		decompressed, err := r.decoder.DecodeAll(e.ChangesCompressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress changes of audit entry %d: %w", e.ID, err)
		}
		e.Changes = decompressed
		e.ChangesCompressed = nil
	}

	return entries, nil
}
