package thumbnail_test

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/thumbnail"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

func TestRegistry_PutAndGet(t *testing.T) {
	registry := thumbnail.NewRegistry()
	videoID := uuid.New()

	data := []byte{0x89, 'P', 'N', 'G'}
	registry.Put(videoID, "abc.png", data, "image/png")
	data[0] = 0x00

	thumb, err := registry.Get(videoID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, thumb.Data, "registry must not share the caller's slice")
	assert.Equal(t, "image/png", thumb.MediaType)
}

func TestRegistry_GetMissing(t *testing.T) {
	_, err := thumbnail.NewRegistry().Get(uuid.New())
	assert.ErrorIs(t, err, thumbnail.ErrThumbnailNotFound)
}

func TestRegistry_Replace(t *testing.T) {
	registry := thumbnail.NewRegistry()
	videoID := uuid.New()

	registry.Put(videoID, "first.png", []byte("first"), "image/png")
	registry.Put(videoID, "second.jpeg", []byte("second"), "image/jpeg")

	thumb, err := registry.Get(videoID)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), thumb.Data)
	assert.Equal(t, "image/jpeg", thumb.MediaType)
}

func TestRegistry_Remove(t *testing.T) {
	registry := thumbnail.NewRegistry()
	videoID := uuid.New()
	registry.Put(videoID, "asset.png", []byte("data"), "image/png")

	registry.Remove(videoID)

	_, err := registry.Get(videoID)
	assert.ErrorIs(t, err, thumbnail.ErrThumbnailNotFound)
	_, err = registry.ResolveAsset("asset.png")
	assert.ErrorIs(t, err, thumbnail.ErrThumbnailNotFound)
}

func TestRegistry_ResolveAsset(t *testing.T) {
	registry := thumbnail.NewRegistry()
	videoID := uuid.New()

	_, err := registry.ResolveAsset("unknown.png")
	assert.ErrorIs(t, err, thumbnail.ErrThumbnailNotFound)

	registry.Put(videoID, "abc.png", []byte("data"), "image/png")

	thumb, err := registry.ResolveAsset("abc.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), thumb.Data)
	assert.Equal(t, "abc.png", thumb.AssetName)
}

func TestRegistry_ReplaceRetiresAssetName(t *testing.T) {
	registry := thumbnail.NewRegistry()
	videoID := uuid.New()

	registry.Put(videoID, "old.png", []byte("first"), "image/png")
	registry.Put(videoID, "new.jpeg", []byte("second"), "image/jpeg")

	_, err := registry.ResolveAsset("old.png")
	assert.ErrorIs(t, err, thumbnail.ErrThumbnailNotFound)

	thumb, err := registry.ResolveAsset("new.jpeg")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), thumb.Data)
	assert.Equal(t, "image/jpeg", thumb.MediaType)
}

func TestRegistry_ReplaceWithSameAssetName(t *testing.T) {
	registry := thumbnail.NewRegistry()
	videoID := uuid.New()

	registry.Put(videoID, "same.png", []byte("first"), "image/png")
	registry.Put(videoID, "same.png", []byte("second"), "image/png")

	thumb, err := registry.ResolveAsset("same.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), thumb.Data)
}

func TestRegistry_AssetNamesAreScopedToVideo(t *testing.T) {
	registry := thumbnail.NewRegistry()
	first, second := uuid.New(), uuid.New()

	registry.Put(first, "first.png", []byte("first"), "image/png")
	registry.Put(second, "second.png", []byte("second"), "image/png")
	registry.Remove(first)

	_, err := registry.ResolveAsset("first.png")
	assert.ErrorIs(t, err, thumbnail.ErrThumbnailNotFound)

	thumb, err := registry.ResolveAsset("second.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), thumb.Data)
}

// TestRegistry_ConcurrentAccess ensures that readers never observe a
// partially written entry while writers replace it.
func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := thumbnail.NewRegistry()
	videoID := uuid.New()
	registry.Put(videoID, "initial.png", bytes.Repeat([]byte{0}, 64), "image/png")

	wg := &sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				registry.Put(videoID, fmt.Sprintf("%d-%d.png", i, j), bytes.Repeat([]byte{byte(i)}, 64), fmt.Sprintf("image/%d", i))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				thumb, err := registry.Get(videoID)
				if !assert.NoError(t, err) {
					return
				}

				assert.Len(t, thumb.Data, 64)
				assert.Equal(t, bytes.Repeat(thumb.Data[:1], 64), thumb.Data, "payload must be written whole")
			}
		}()
	}

	wg.Wait()
}
