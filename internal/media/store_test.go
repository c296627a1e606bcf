package media_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/hbomb79/Tubely/tests/helpers"
	"github.com/labstack/gommon/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

func TestStore_VideoLifecycle(t *testing.T) {
	db := helpers.RequireDatabase(t).GetSqlxDb()
	store := media.NewStore()

	ownerID := uuid.New()
	video := &media.Video{ID: uuid.New(), OwnerID: ownerID, Title: random.String(16), Description: "desc"}
	require.NoError(t, store.Create(db, video))

	saved, err := store.Get(db, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.Title, saved.Title)
	assert.Equal(t, ownerID, saved.OwnerID)
	assert.Nil(t, saved.VideoURL)
	assert.Nil(t, saved.ThumbnailURL)
	assert.False(t, saved.CreatedAt.IsZero())

	key := media.StorageKey(media.Landscape, video.ID.String())
	saved.VideoURL = &key
	require.NoError(t, store.Update(db, saved))

	updated, err := store.Get(db, video.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.VideoURL)
	assert.Equal(t, key, *updated.VideoURL)

	other := &media.Video{ID: uuid.New(), OwnerID: uuid.New(), Title: random.String(16)}
	require.NoError(t, store.Create(db, other))

	owned, err := store.ListForOwner(db, ownerID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, video.ID, owned[0].ID)

	require.NoError(t, store.Delete(db, video.ID))
	_, err = store.Get(db, video.ID)
	assert.ErrorIs(t, err, media.ErrVideoNotFound)
}

func TestStore_UpdateMissingVideo(t *testing.T) {
	db := helpers.RequireDatabase(t).GetSqlxDb()
	store := media.NewStore()

	err := store.Update(db, &media.Video{ID: uuid.New(), Title: "missing"})
	assert.ErrorIs(t, err, media.ErrVideoNotFound)
}
