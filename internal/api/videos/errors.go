package videos

import (
	"errors"
	"net/http"

	"github.com/hbomb79/Tubely/internal/api/auth"
	"github.com/hbomb79/Tubely/internal/api/gen"
	"github.com/hbomb79/Tubely/internal/ffmpeg"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/hbomb79/Tubely/internal/storage"
	"github.com/hbomb79/Tubely/internal/thumbnail"
	"github.com/hbomb79/Tubely/internal/upload"
)

// toAPIError maps errors returned by the upload service to the
// HTTP status and code the client receives.
func toAPIError(err error) error {
	var (
		probeErr *ffmpeg.ProbeError
		remuxErr *ffmpeg.RemuxError
		storeErr *storage.StoreError
	)

	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		return gen.APIError{Status: http.StatusRequestEntityTooLarge, Code: "FILE_TOO_LARGE", Message: err.Error()}
	case errors.Is(err, upload.ErrUnsupportedMediaType):
		return gen.APIError{Status: http.StatusUnsupportedMediaType, Code: "UNSUPPORTED_MEDIA_TYPE", Message: err.Error()}
	case errors.Is(err, upload.ErrMissingFile):
		return gen.APIError{Status: http.StatusBadRequest, Code: "MISSING_FILE", Message: err.Error()}
	case errors.Is(err, media.ErrVideoNotFound):
		return gen.APIError{Status: http.StatusNotFound, Code: "VIDEO_NOT_FOUND", Message: "Video not found"}
	case errors.Is(err, thumbnail.ErrThumbnailNotFound):
		return gen.APIError{Status: http.StatusNotFound, Code: "THUMBNAIL_NOT_FOUND", Message: "Thumbnail not found"}
	case errors.Is(err, upload.ErrNotOwner):
		return gen.APIError{Status: http.StatusForbidden, Code: "NOT_OWNER", Message: "You do not own this video"}
	case errors.Is(err, auth.ErrNoPrincipal):
		return gen.APIError{Status: http.StatusUnauthorized, Code: "UNAUTHENTICATED", Message: "A valid bearer token is required"}
	case errors.As(err, &probeErr):
		return gen.APIError{Status: http.StatusUnprocessableEntity, Code: "PROBE_FAILED", Message: "Uploaded video could not be read", InternalMessage: err.Error()}
	case errors.As(err, &remuxErr):
		return gen.APIError{Status: http.StatusUnprocessableEntity, Code: "REMUX_FAILED", Message: "Uploaded video could not be processed", InternalMessage: err.Error()}
	case errors.As(err, &storeErr):
		return gen.APIError{Status: http.StatusBadGateway, Code: "STORAGE_FAILED", Message: "Failed to store uploaded video", InternalMessage: err.Error()}
	default:
		return gen.APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", InternalMessage: err.Error()}
	}
}
