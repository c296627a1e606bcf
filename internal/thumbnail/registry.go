package thumbnail

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/hbomb79/Tubely/pkg/sync"
)

var (
	ErrThumbnailNotFound = errors.New("thumbnail does not exist")

	log = logger.Get("Thumbnails")
)

type (
	// Thumbnail is an immutable snapshot of an uploaded thumbnail. Once
	// stored in the registry the payload must not be modified. AssetName
	// is the opaque name the thumbnail is publicly served under.
	Thumbnail struct {
		AssetName string
		Data      []byte
		MediaType string
	}

	// Registry is an in-memory store of thumbnails, keyed by the ID
	// of the video they belong to. Entries live for the lifetime of the
	// process and are only ever replaced whole, so concurrent readers
	// always see a complete payload.
	//
	// Each entry is also reachable by its asset name. A video only ever has
	// one live asset name: replacing or removing its thumbnail retires the
	// previous name.
	Registry struct {
		entries sync.TypedSyncMap[uuid.UUID, *Thumbnail]
		assets  sync.TypedSyncMap[string, uuid.UUID]
	}
)

func NewRegistry() *Registry {
	return &Registry{}
}

// Put stores the thumbnail for the video under the given asset name,
// replacing any existing entry and retiring its asset name. The payload
// is copied, so the caller may reuse the slice afterwards.
func (registry *Registry) Put(videoID uuid.UUID, assetName string, data []byte, mediaType string) {
	payload := make([]byte, len(data))
	copy(payload, data)

	registry.assets.Store(assetName, videoID)
	previous, replaced := registry.entries.Swap(videoID, &Thumbnail{AssetName: assetName, Data: payload, MediaType: mediaType})
	if !replaced || previous == nil {
		log.Emit(logger.DEBUG, "Stored thumbnail for video %s as %s (%s, %d bytes)\n", videoID, assetName, mediaType, len(payload))
		return
	}

	if previous.AssetName != assetName {
		registry.assets.Delete(previous.AssetName)
	}
	log.Emit(logger.DEBUG, "Replaced thumbnail for video %s with %s (%s, %d bytes)\n", videoID, assetName, mediaType, len(payload))
}

// Get returns the thumbnail for the video, or ErrThumbnailNotFound.
func (registry *Registry) Get(videoID uuid.UUID) (Thumbnail, error) {
	entry, ok := registry.entries.Load(videoID)
	if !ok || entry == nil {
		return Thumbnail{}, ErrThumbnailNotFound
	}

	return *entry, nil
}

// Remove discards the thumbnail for the video along with its asset name.
func (registry *Registry) Remove(videoID uuid.UUID) {
	entry, ok := registry.entries.Load(videoID)
	if !ok {
		return
	}

	registry.entries.Delete(videoID)
	if entry != nil {
		registry.assets.Delete(entry.AssetName)
	}
}

// ResolveAsset returns the thumbnail served under the asset name. Asset
// names which have since been replaced do not resolve.
func (registry *Registry) ResolveAsset(assetName string) (Thumbnail, error) {
	videoID, ok := registry.assets.Load(assetName)
	if !ok {
		return Thumbnail{}, ErrThumbnailNotFound
	}

	thumb, err := registry.Get(videoID)
	if err != nil || thumb.AssetName != assetName {
		return Thumbnail{}, ErrThumbnailNotFound
	}

	return thumb, nil
}
