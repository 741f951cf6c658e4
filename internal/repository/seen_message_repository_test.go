package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burnerpost/burnerpost/internal/models"
)

func TestMarkDelivered_ThenIsDelivered(t *testing.T) {
	db := openTestDB(t)
	ledger := NewSeenMessageRepository(db)
	ctx := context.Background()

	delivered, err := ledger.IsDelivered(ctx, 42, "m1")
	require.NoError(t, err)
	assert.False(t, delivered)

	require.NoError(t, ledger.MarkDelivered(ctx, 42, "m1"))

	delivered, err = ledger.IsDelivered(ctx, 42, "m1")
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestMarkDelivered_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ledger := NewSeenMessageRepository(db)
	ctx := context.Background()

	require.NoError(t, ledger.MarkDelivered(ctx, 42, "m1"))
	require.NoError(t, ledger.MarkDelivered(ctx, 42, "m1"))

	var count int64
	require.NoError(t, db.Model(&models.SeenMessage{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIsDelivered_ScopedPerChat(t *testing.T) {
	db := openTestDB(t)
	ledger := NewSeenMessageRepository(db)
	ctx := context.Background()

	require.NoError(t, ledger.MarkDelivered(ctx, 42, "m1"))

	delivered, err := ledger.IsDelivered(ctx, 7, "m1")
	require.NoError(t, err)
	assert.False(t, delivered)
}

func TestPruneOlderThan(t *testing.T) {
	db := openTestDB(t)
	ledger := NewSeenMessageRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.SeenMessage{
		ChatID: 42, MessageID: "ancient", SeenAt: time.Now().Add(-45 * 24 * time.Hour),
	}).Error)
	require.NoError(t, ledger.MarkDelivered(ctx, 42, "recent"))

	pruned, err := ledger.PruneOlderThan(ctx, 30*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	delivered, err := ledger.IsDelivered(ctx, 42, "recent")
	require.NoError(t, err)
	assert.True(t, delivered)

	delivered, err = ledger.IsDelivered(ctx, 42, "ancient")
	require.NoError(t, err)
	assert.False(t, delivered)
}
