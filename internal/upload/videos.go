package upload

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/hbomb79/Tubely/pkg/logger"
)

// CreateVideo persists a new, empty, video record owned by the user given.
func (service *Service) CreateVideo(ctx context.Context, ownerID uuid.UUID, title string, description string) (*media.Video, error) {
	video := &media.Video{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}
	if err := service.store.CreateVideo(video); err != nil {
		return nil, err
	}

	log.Emit(logger.NEW, "Created video %s\n", video)
	return service.store.GetVideo(video.ID)
}

// GetVideo returns the video with a signed URL in place of its storage key.
func (service *Service) GetVideo(ctx context.Context, videoID uuid.UUID) (*media.Video, error) {
	video, err := service.store.GetVideo(videoID)
	if err != nil {
		return nil, err
	}

	return service.SignVideo(ctx, video)
}

// ListVideos returns every video owned by the user, each carrying a signed URL.
func (service *Service) ListVideos(ctx context.Context, ownerID uuid.UUID) ([]*media.Video, error) {
	videos, err := service.store.ListVideos(ownerID)
	if err != nil {
		return nil, err
	}

	signed := make([]*media.Video, 0, len(videos))
	for _, video := range videos {
		s, err := service.SignVideo(ctx, video)
		if err != nil {
			return nil, fmt.Errorf("failed to sign video %s: %w", video.ID, err)
		}

		signed = append(signed, s)
	}

	return signed, nil
}

// DeleteVideo removes the video record, and the stored video object if one
// has been uploaded. Only the owner of a video may delete it.
func (service *Service) DeleteVideo(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID) error {
	video, err := service.authorizedVideo(videoID, ownerID)
	if err != nil {
		return err
	}

	if video.VideoURL != nil && isStorageKey(*video.VideoURL) {
		if err := service.objects.Delete(ctx, *video.VideoURL); err != nil {
			return err
		}
	}

	if err := service.store.DeleteVideo(videoID); err != nil {
		return err
	}
	service.thumbnails.Remove(videoID)

	log.Emit(logger.REMOVE, "Deleted video %s\n", videoID)
	return nil
}
