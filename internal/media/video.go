package media

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type (
	// Video is the asset record for a single uploaded video. The VideoURL
	// persisted for a video is always the storage key of the processed
	// upload; signed URLs are only ever placed on copies returned to callers.
	Video struct {
		ID           uuid.UUID `db:"id"`
		OwnerID      uuid.UUID `db:"owner_id"`
		Title        string    `db:"title"`
		Description  string    `db:"description"`
		VideoURL     *string   `db:"video_url"`
		ThumbnailURL *string   `db:"thumbnail_url"`
		CreatedAt    time.Time `db:"created_at"`
		UpdatedAt    time.Time `db:"updated_at"`
	}

	// Classification is the aspect ratio bucket a video falls in to, as
	// determined when the video is uploaded.
	Classification string
)

const (
	Landscape Classification = "landscape"
	Portrait  Classification = "portrait"
	Other     Classification = "other"
)

var (
	landscapeRatio = int(math.Floor((16.0 / 9.0) * 100))
	portraitRatio  = int(math.Floor((9.0 / 16.0) * 100))
)

// ClassifyAspect buckets the given frame dimensions. The ratio is truncated
// to two decimal places and must match 16:9 or 9:16 exactly; anything
// else (including a zero height) is Other.
func ClassifyAspect(width int, height int) Classification {
	if width <= 0 || height <= 0 {
		return Other
	}

	ratio := int(math.Floor((float64(width) / float64(height)) * 100))
	switch ratio {
	case landscapeRatio:
		return Landscape
	case portraitRatio:
		return Portrait
	default:
		return Other
	}
}

// StorageKey returns the object key a processed video is stored under.
func StorageKey(classification Classification, videoID string) string {
	return fmt.Sprintf("%s/%s.mp4", classification, videoID)
}

// Clone returns a copy of the video which shares no pointers with the original.
func (video *Video) Clone() *Video {
	out := *video
	if video.VideoURL != nil {
		url := *video.VideoURL
		out.VideoURL = &url
	}
	if video.ThumbnailURL != nil {
		url := *video.ThumbnailURL
		out.ThumbnailURL = &url
	}

	return &out
}

func (video *Video) String() string {
	return fmt.Sprintf("{video id=%s owner=%s title=%q}", video.ID, video.OwnerID, video.Title)
}
