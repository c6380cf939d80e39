package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesk/internal/domain/audit"
)

func TestAuditRepo_AppendAndHistory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepo(NewTxManager(db))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Append(ctx, audit.Entry{
		EntityType:      "product",
		EntityID:        1,
		Action:          audit.ActionCreate,
		UserID:          "u-1",
		Changes:         []byte(`{"name":"Dune"}`),
		CompressionAlgo: audit.CompressionNone,
		CreatedAt:       now,
	}))
	require.NoError(t, repo.Append(ctx, audit.Entry{
		EntityType:        "product",
		EntityID:          1,
		Action:            audit.ActionUpdate,
		UserID:            "u-2",
		ChangesCompressed: []byte{0x28, 0xb5, 0x2f, 0xfd},
		CompressionAlgo:   audit.CompressionZstd,
		CreatedAt:         now.Add(time.Second),
	}))
	require.NoError(t, repo.Append(ctx, audit.Entry{
		EntityType:      "product",
		EntityID:        2,
		Action:          audit.ActionCreate,
		Changes:         []byte(`{}`),
		CompressionAlgo: audit.CompressionNone,
		CreatedAt:       now,
	}))

	history, err := repo.History(ctx, "product", 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, audit.ActionUpdate, history[0].Action)
	assert.Nil(t, history[0].Changes)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, history[0].ChangesCompressed)
	assert.Equal(t, audit.CompressionZstd, history[0].CompressionAlgo)

	assert.Equal(t, audit.ActionCreate, history[1].Action)
	assert.JSONEq(t, `{"name":"Dune"}`, string(history[1].Changes))
	assert.Nil(t, history[1].ChangesCompressed)
	assert.Equal(t, "u-1", history[1].UserID)
	assert.True(t, now.Equal(history[1].CreatedAt))

	limited, err := repo.History(ctx, "product", 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
