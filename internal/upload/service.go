package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/hbomb79/Tubely/internal/thumbnail"
	"github.com/hbomb79/Tubely/pkg/logger"
	"github.com/labstack/gommon/random"
)

const (
	videoMediaType  = "video/mp4"
	assetNameLength = 32
)

var (
	acceptedVideoTypes     = []string{videoMediaType}
	acceptedThumbnailTypes = []string{"image/jpeg", "image/png"}

	log = logger.Get("UploadServ")
)

type (
	RecordStore interface {
		GetVideo(id uuid.UUID) (*media.Video, error)
		ListVideos(ownerID uuid.UUID) ([]*media.Video, error)
		CreateVideo(video *media.Video) error
		UpdateVideo(video *media.Video) error
		DeleteVideo(id uuid.UUID) error
	}

	Prober interface {
		Classify(ctx context.Context, path string) (media.Classification, error)
	}

	Remuxer interface {
		Remux(ctx context.Context, inputPath string) (string, error)
	}

	ObjectStore interface {
		Put(ctx context.Context, key string, localPath string, contentType string) error
		Sign(ctx context.Context, key string, expiry time.Duration) (string, error)
		Delete(ctx context.Context, key string) error
	}

	ThumbnailRegistry interface {
		Put(videoID uuid.UUID, assetName string, data []byte, mediaType string)
		Get(videoID uuid.UUID) (thumbnail.Thumbnail, error)
		Remove(videoID uuid.UUID)
		ResolveAsset(assetName string) (thumbnail.Thumbnail, error)
	}

	// File is a single uploaded file, as received from the client. Size is
	// the size declared by the client, and is enforced again while the
	// content is read.
	File struct {
		Content     io.Reader
		Size        int64
		ContentType string
	}

	// Service is the ingestion pipeline for uploaded media. Videos are
	// probed, remuxed for progressive playback and stored in the object
	// store, while thumbnails are held in the thumbnail registry.
	Service struct {
		config     Config
		store      RecordStore
		prober     Prober
		remuxer    Remuxer
		objects    ObjectStore
		thumbnails ThumbnailRegistry
	}
)

func NewService(config Config, store RecordStore, prober Prober, remuxer Remuxer, objects ObjectStore, thumbnails ThumbnailRegistry) *Service {
	return &Service{
		config:     config.withDefaults(),
		store:      store,
		prober:     prober,
		remuxer:    remuxer,
		objects:    objects,
		thumbnails: thumbnails,
	}
}

// IngestVideo validates and processes an uploaded video for the given
// video record. The upload is written to a scratch location, classified
// by aspect ratio, remuxed for faststart playback and uploaded to the
// object store. The record is persisted with the storage key of the
// upload, and a copy carrying a signed URL is returned.
//
// Scratch and processed files are always removed before returning.
func (service *Service) IngestVideo(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, file *File) (*media.Video, error) {
	mediaType, err := validate(file, service.config.MaxVideoBytes, acceptedVideoTypes)
	if err != nil {
		return nil, err
	}

	video, err := service.authorizedVideo(videoID, ownerID)
	if err != nil {
		return nil, err
	}

	scratch, err := newScratchDir(service.config.ScratchDir)
	if err != nil {
		return nil, err
	}
	defer scratch.release()

	uploadPath, err := scratch.write("upload.mp4", file.Content, service.config.MaxVideoBytes)
	if err != nil {
		return nil, err
	}

	classification, err := service.prober.Classify(ctx, uploadPath)
	if err != nil {
		return nil, err
	}

	key := media.StorageKey(classification, videoID.String())
	processedPath, err := service.remuxer.Remux(ctx, uploadPath)
	if err != nil {
		return nil, err
	}

	if err := service.objects.Put(ctx, key, processedPath, mediaType); err != nil {
		return nil, err
	}

	previousURL := video.VideoURL
	video.VideoURL = &key
	if err := service.store.UpdateVideo(video); err != nil {
		// A record still referencing this key keeps the (overwritten) object
		if previousURL == nil || *previousURL != key {
			service.discardObject(ctx, key)
		}

		return nil, fmt.Errorf("failed to save video %s: %w", videoID, err)
	}

	log.Emit(logger.SUCCESS, "Ingested video %s as %s\n", videoID, key)
	return service.SignVideo(ctx, video)
}

// IngestThumbnail validates an uploaded thumbnail and stores it in the
// thumbnail registry. The video record is updated to reference the thumbnail
// via a public asset URL built from a random asset name.
func (service *Service) IngestThumbnail(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, file *File) (*media.Video, error) {
	mediaType, err := validate(file, service.config.MaxThumbnailBytes, acceptedThumbnailTypes)
	if err != nil {
		return nil, err
	}

	video, err := service.authorizedVideo(videoID, ownerID)
	if err != nil {
		return nil, err
	}

	data, err := readLimited(file.Content, service.config.MaxThumbnailBytes)
	if err != nil {
		return nil, err
	}

	assetName := fmt.Sprintf("%s.%s", random.String(assetNameLength, random.Alphanumeric), mediaSubtype(mediaType))
	thumbnailURL := fmt.Sprintf("%s/assets/%s", strings.TrimRight(service.config.PublicBaseURL, "/"), assetName)
	video.ThumbnailURL = &thumbnailURL
	if err := service.store.UpdateVideo(video); err != nil {
		return nil, fmt.Errorf("failed to save video %s: %w", videoID, err)
	}

	service.thumbnails.Put(videoID, assetName, data, mediaType)

	log.Emit(logger.SUCCESS, "Stored thumbnail for video %s (%s)\n", videoID, assetName)
	return service.SignVideo(ctx, video)
}

// discardObject removes an uploaded object which no record references. Failure
// is only logged, as the caller is already returning an error.
func (service *Service) discardObject(ctx context.Context, key string) {
	if err := service.objects.Delete(ctx, key); err != nil {
		log.Emit(logger.WARNING, "Failed to discard unreferenced object %s: %v\n", key, err)
		return
	}

	log.Emit(logger.REMOVE, "Discarded unreferenced object %s\n", key)
}

// GetThumbnail returns the thumbnail registered for the video.
func (service *Service) GetThumbnail(videoID uuid.UUID) (thumbnail.Thumbnail, error) {
	return service.thumbnails.Get(videoID)
}

// GetThumbnailAsset returns the thumbnail referenced by a public asset name.
func (service *Service) GetThumbnailAsset(assetName string) (thumbnail.Thumbnail, error) {
	return service.thumbnails.ResolveAsset(assetName)
}

// SignVideo returns a copy of the video with its storage key replaced
// by a signed URL. The video given is never modified. Videos without
// a storage key (no upload yet, or an already absolute URL) are returned
// as an unmodified copy.
func (service *Service) SignVideo(ctx context.Context, video *media.Video) (*media.Video, error) {
	signed := video.Clone()
	if signed.VideoURL == nil || !isStorageKey(*signed.VideoURL) {
		return signed, nil
	}

	url, err := service.objects.Sign(ctx, *signed.VideoURL, service.config.SignedURLExpiry)
	if err != nil {
		return nil, err
	}

	signed.VideoURL = &url
	return signed, nil
}

// authorizedVideo fetches the video, ensuring it is owned by the user given.
func (service *Service) authorizedVideo(videoID uuid.UUID, ownerID uuid.UUID) (*media.Video, error) {
	video, err := service.store.GetVideo(videoID)
	if err != nil {
		return nil, err
	}

	if video.OwnerID != ownerID {
		log.Emit(logger.WARNING, "User %s attempted to modify video %s owned by %s\n", ownerID, videoID, video.OwnerID)
		return nil, ErrNotOwner
	}

	return video, nil
}

// validate checks an upload against the size limit and accepted media
// types, returning the parsed media type of the upload.
func validate(file *File, maxBytes int64, acceptedTypes []string) (string, error) {
	if file == nil || file.Content == nil {
		return "", newValidationError(ErrMissingFile, "no file provided")
	}
	if file.Size > maxBytes {
		return "", newValidationError(ErrFileTooLarge, "file is %d bytes, the maximum is %d bytes", file.Size, maxBytes)
	}

	mediaType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil {
		return "", newValidationError(ErrUnsupportedMediaType, "invalid Content-Type %q", file.ContentType)
	}
	for _, accepted := range acceptedTypes {
		if mediaType == accepted {
			return mediaType, nil
		}
	}

	return "", newValidationError(ErrUnsupportedMediaType, "media type %q is not one of %v", mediaType, acceptedTypes)
}

func readLimited(content io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(content, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, newValidationError(ErrFileTooLarge, "file exceeds the maximum of %d bytes", maxBytes)
	}

	return data, nil
}

func mediaSubtype(mediaType string) string {
	if _, subtype, ok := strings.Cut(mediaType, "/"); ok {
		return subtype
	}

	return "bin"
}

func isStorageKey(ref string) bool {
	return ref != "" && !strings.Contains(ref, "://")
}

// scratchDir is a temporary directory owned by a single upload. Everything
// written in to it (including processed output placed alongside the
// upload) is removed by release.
type scratchDir struct {
	path string
}

func newScratchDir(root string) (*scratchDir, error) {
	if root != "" {
		if err := os.MkdirAll(root, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create scratch root %s: %w", root, err)
		}
	}

	path, err := os.MkdirTemp(root, "tubely-upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return &scratchDir{path: path}, nil
}

// write copies at most maxBytes from content in to a new file in the
// scratch directory. Content longer than maxBytes is a validation error.
func (scratch *scratchDir) write(name string, content io.Reader, maxBytes int64) (string, error) {
	path := filepath.Join(scratch.path, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, io.LimitReader(content, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	if written > maxBytes {
		return "", newValidationError(ErrFileTooLarge, "file exceeds the maximum of %d bytes", maxBytes)
	}

	return path, nil
}

func (scratch *scratchDir) release() {
	if err := os.RemoveAll(scratch.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Emit(logger.ERROR, "Failed to remove scratch directory %s: %v\n", scratch.path, err)
	}
}
