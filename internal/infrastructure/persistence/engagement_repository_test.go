package persistence

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/engagement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSubscriberRepository_Subscribe(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSubscriberRepository(db)
	ctx := context.Background()

	first, err := engagement.NewSubscriber("reader@example.com")
	require.NoError(t, err)
	created, err := repo.Subscribe(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	again, err := engagement.NewSubscriber("  READER@example.com ")
	require.NoError(t, err)
	created, err = repo.Subscribe(ctx, again)
	require.NoError(t, err)
	assert.False(t, created, "existing email is left alone")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormContactRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormContactRepository(db)

	msg, err := engagement.NewContactMessage("Asha", "asha@example.com", "", "Do you ship to Goa?")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), msg))

	var count int64
	require.NoError(t, db.Table("contact_messages").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
