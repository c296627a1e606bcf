package videos

import (
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/media"
)

type VideoDto struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     *string   `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func videoToDto(video *media.Video) VideoDto {
	return VideoDto{
		ID:           video.ID,
		OwnerID:      video.OwnerID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		CreatedAt:    video.CreatedAt,
		UpdatedAt:    video.UpdatedAt,
	}
}
