package upload_test

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/ffmpeg"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/stretchr/testify/mock"
)

type mockRecordStore struct{ mock.Mock }

func (store *mockRecordStore) GetVideo(id uuid.UUID) (*media.Video, error) {
	ret := store.Called(id)
	if v := ret.Get(0); v != nil {
		return v.(*media.Video).Clone(), ret.Error(1)
	}

	return nil, ret.Error(1)
}

func (store *mockRecordStore) ListVideos(ownerID uuid.UUID) ([]*media.Video, error) {
	ret := store.Called(ownerID)
	if v := ret.Get(0); v != nil {
		return v.([]*media.Video), ret.Error(1)
	}

	return nil, ret.Error(1)
}

func (store *mockRecordStore) CreateVideo(video *media.Video) error {
	return store.Called(video).Error(0)
}

func (store *mockRecordStore) UpdateVideo(video *media.Video) error {
	return store.Called(video).Error(0)
}

func (store *mockRecordStore) DeleteVideo(id uuid.UUID) error {
	return store.Called(id).Error(0)
}

type mockProber struct{ mock.Mock }

func (prober *mockProber) Classify(ctx context.Context, path string) (media.Classification, error) {
	ret := prober.Called(path)
	return ret.Get(0).(media.Classification), ret.Error(1)
}

// mockRemuxer writes the processed output alongside the input, as ffmpeg
// would, even when the expectation returns an error.
type mockRemuxer struct{ mock.Mock }

func (remuxer *mockRemuxer) Remux(ctx context.Context, inputPath string) (string, error) {
	ret := remuxer.Called(inputPath)

	outputPath := ffmpeg.ProcessedPath(inputPath)
	if err := os.WriteFile(outputPath, []byte("processed"), 0o644); err != nil {
		return "", err
	}
	if err := ret.Error(0); err != nil {
		return "", err
	}

	return outputPath, nil
}

type mockObjectStore struct{ mock.Mock }

func (store *mockObjectStore) Put(ctx context.Context, key string, localPath string, contentType string) error {
	return store.Called(key, localPath, contentType).Error(0)
}

func (store *mockObjectStore) Sign(ctx context.Context, key string, expiry time.Duration) (string, error) {
	ret := store.Called(key, expiry)
	return ret.String(0), ret.Error(1)
}

func (store *mockObjectStore) Delete(ctx context.Context, key string) error {
	return store.Called(key).Error(0)
}
