package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagUpsertCreatesAndReuses(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tags@example.com")
	service := NewTagService(db)
	ctx := context.Background()

	first, err := service.Upsert(ctx, user.ID, "math")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := service.Upsert(ctx, user.ID, "math")
	require.NoError(t, err)

	// Same name resolves to the same row, never a duplicate
	assert.Equal(t, first.ID, second.ID)

	tags, err := service.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTagUpsertTrimsName(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tags@example.com")
	service := NewTagService(db)
	ctx := context.Background()

	tag, err := service.Upsert(ctx, user.ID, "  required  ")
	require.NoError(t, err)
	assert.Equal(t, "required", tag.Name)

	same, err := service.Upsert(ctx, user.ID, "required")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, same.ID)
}

func TestTagUpsertRejectsEmptyName(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tags@example.com")
	service := NewTagService(db)

	_, err := service.Upsert(context.Background(), user.ID, "   ")
	assert.ErrorIs(t, err, ErrTagNameRequired)
}

func TestTagsAreScopedPerUser(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	service := NewTagService(db)
	ctx := context.Background()

	aliceTag, err := service.Upsert(ctx, alice.ID, "math")
	require.NoError(t, err)
	bobTag, err := service.Upsert(ctx, bob.ID, "math")
	require.NoError(t, err)

	// Same name, different owners, distinct rows
	assert.NotEqual(t, aliceTag.ID, bobTag.ID)

	aliceTags, err := service.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceTags, 1)
	assert.Equal(t, aliceTag.ID, aliceTags[0].ID)
}

func TestTagListOrdersByName(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tags@example.com")
	service := NewTagService(db)
	ctx := context.Background()

	for _, name := range []string{"required", "elective", "math"} {
		_, err := service.Upsert(ctx, user.ID, name)
		require.NoError(t, err)
	}

	tags, err := service.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "elective", tags[0].Name)
	assert.Equal(t, "math", tags[1].Name)
	assert.Equal(t, "required", tags[2].Name)
}

func TestTagListEmptyForNewUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tags@example.com")
	service := NewTagService(db)

	tags, err := service.List(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}
