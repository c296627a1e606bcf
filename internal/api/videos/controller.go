package videos

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/api/auth"
	"github.com/hbomb79/Tubely/internal/api/gen"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/hbomb79/Tubely/internal/thumbnail"
	"github.com/hbomb79/Tubely/internal/upload"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/labstack/echo/v4"
)

const (
	videoFormField     = "video"
	thumbnailFormField = "thumbnail"
)

var log = logger.Get("VideosController")

type (
	Service interface {
		CreateVideo(ctx context.Context, ownerID uuid.UUID, title string, description string) (*media.Video, error)
		GetVideo(ctx context.Context, videoID uuid.UUID) (*media.Video, error)
		ListVideos(ctx context.Context, ownerID uuid.UUID) ([]*media.Video, error)
		DeleteVideo(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID) error
		IngestVideo(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, file *upload.File) (*media.Video, error)
		IngestThumbnail(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, file *upload.File) (*media.Video, error)
		GetThumbnail(videoID uuid.UUID) (thumbnail.Thumbnail, error)
		GetThumbnailAsset(assetName string) (thumbnail.Thumbnail, error)
	}

	CreateVideoRequest struct {
		Title       string `json:"title" validate:"required,max=256"`
		Description string `json:"description" validate:"max=4096"`
	}

	// Controller exposes the video records, and the upload endpoints
	// used to attach media to them.
	Controller struct {
		validate *validator.Validate
		service  Service
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	return &Controller{validate: validate, service: service}
}

// SetRoutes registers the video routes. Every route requires an
// authenticated user.
func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/", controller.create)
	eg.GET("/", controller.list)
	eg.GET("/:id/", controller.get)
	eg.DELETE("/:id/", controller.delete)
	eg.POST("/:id/video-upload/", controller.uploadVideo)
	eg.POST("/:id/thumbnail-upload/", controller.uploadThumbnail)
}

// SetThumbnailRoutes registers the route used to fetch the thumbnail of a video by the video's ID.
func (controller *Controller) SetThumbnailRoutes(eg *echo.Group) {
	eg.GET("/:id/", controller.getThumbnail)
}

// SetAssetRoutes registers the public asset route which serves
// thumbnails by the asset name stored on the video record.
func (controller *Controller) SetAssetRoutes(eg *echo.Group) {
	eg.GET("/:name", controller.getAsset)
}

func (controller *Controller) create(ec echo.Context) error {
	userID, err := auth.PrincipalFromContext(ec)
	if err != nil {
		return toAPIError(err)
	}

	var request CreateVideoRequest
	if err := ec.Bind(&request); err != nil {
		return gen.APIError{Status: http.StatusBadRequest, Code: "INVALID_BODY", Message: fmt.Sprintf("JSON body illegal: %v", err)}
	}
	if err := controller.validate.Struct(request); err != nil {
		return gen.APIError{Status: http.StatusBadRequest, Code: "INVALID_BODY", Message: err.Error()}
	}

	video, err := controller.service.CreateVideo(ec.Request().Context(), userID, request.Title, request.Description)
	if err != nil {
		return toAPIError(err)
	}

	return ec.JSON(http.StatusCreated, videoToDto(video))
}

func (controller *Controller) list(ec echo.Context) error {
	userID, err := auth.PrincipalFromContext(ec)
	if err != nil {
		return toAPIError(err)
	}

	videos, err := controller.service.ListVideos(ec.Request().Context(), userID)
	if err != nil {
		return toAPIError(err)
	}

	dtos := make([]VideoDto, len(videos))
	for k, v := range videos {
		dtos[k] = videoToDto(v)
	}

	return ec.JSON(http.StatusOK, dtos)
}

func (controller *Controller) get(ec echo.Context) error {
	videoID, err := videoIDParam(ec)
	if err != nil {
		return err
	}

	video, err := controller.service.GetVideo(ec.Request().Context(), videoID)
	if err != nil {
		return toAPIError(err)
	}

	return ec.JSON(http.StatusOK, videoToDto(video))
}

func (controller *Controller) delete(ec echo.Context) error {
	videoID, userID, err := controller.videoAndPrincipal(ec)
	if err != nil {
		return err
	}

	if err := controller.service.DeleteVideo(ec.Request().Context(), videoID, userID); err != nil {
		return toAPIError(err)
	}

	return ec.NoContent(http.StatusNoContent)
}

// uploadVideo accepts a multipart form containing a single MP4 video under
// the 'video' field, and runs it through the ingestion pipeline.
func (controller *Controller) uploadVideo(ec echo.Context) error {
	return controller.handleUpload(ec, videoFormField, controller.service.IngestVideo)
}

// uploadThumbnail accepts a multipart form containing a single JPEG or PNG image
// under the 'thumbnail' field.
func (controller *Controller) uploadThumbnail(ec echo.Context) error {
	return controller.handleUpload(ec, thumbnailFormField, controller.service.IngestThumbnail)
}

type ingestFunc func(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, file *upload.File) (*media.Video, error)

func (controller *Controller) handleUpload(ec echo.Context, field string, ingest ingestFunc) error {
	videoID, userID, err := controller.videoAndPrincipal(ec)
	if err != nil {
		return err
	}

	header, err := ec.FormFile(field)
	if err != nil {
		log.Debugf("Upload to video %s has no '%s' file: %v\n", videoID, field, err)
		return toAPIError(fmt.Errorf("%w: form field '%s' missing", upload.ErrMissingFile, field))
	}

	content, err := header.Open()
	if err != nil {
		return gen.APIError{Status: http.StatusBadRequest, Code: "INVALID_UPLOAD", Message: "Unable to read uploaded file", InternalMessage: err.Error()}
	}
	defer content.Close()

	video, err := ingest(ec.Request().Context(), videoID, userID, fileFromHeader(header, content))
	if err != nil {
		return toAPIError(err)
	}

	return ec.JSON(http.StatusOK, videoToDto(video))
}

func (controller *Controller) getThumbnail(ec echo.Context) error {
	videoID, err := videoIDParam(ec)
	if err != nil {
		return err
	}

	thumb, err := controller.service.GetThumbnail(videoID)
	if err != nil {
		return toAPIError(err)
	}

	return ec.Blob(http.StatusOK, thumb.MediaType, thumb.Data)
}

func (controller *Controller) getAsset(ec echo.Context) error {
	thumb, err := controller.service.GetThumbnailAsset(ec.Param("name"))
	if err != nil {
		return toAPIError(err)
	}

	return ec.Blob(http.StatusOK, thumb.MediaType, thumb.Data)
}

func (controller *Controller) videoAndPrincipal(ec echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := auth.PrincipalFromContext(ec)
	if err != nil {
		return uuid.Nil, uuid.Nil, toAPIError(err)
	}

	videoID, err := videoIDParam(ec)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return videoID, userID, nil
}

func videoIDParam(ec echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ec.Param("id"))
	if err != nil {
		return uuid.Nil, gen.APIError{Status: http.StatusBadRequest, Code: "INVALID_VIDEO_ID", Message: "Video ID is not a valid UUID"}
	}

	return id, nil
}

func fileFromHeader(header *multipart.FileHeader, content multipart.File) *upload.File {
	return &upload.File{
		Content:     content,
		Size:        header.Size,
		ContentType: header.Header.Get(echo.HeaderContentType),
	}
}
