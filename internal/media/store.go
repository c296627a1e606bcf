package media

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/database"
	"github.com/hbomb79/Tubely/pkg/logger"
)

var (
	ErrVideoNotFound = errors.New("video does not exist")

	log = logger.Get("MediaStore")
)

// Store is the Postgres backed persistence for video records. Each
// method accepts the Queryable to run against so that callers can
// compose store calls within a transaction.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (store *Store) Create(db database.Queryable, video *Video) error {
	_, err := db.Exec(`
		INSERT INTO videos(id, owner_id, title, description, video_url, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, current_timestamp, current_timestamp)
	`, video.ID, video.OwnerID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL)
	if err != nil {
		return fmt.Errorf("failed to insert video %s: %w", video.ID, err)
	}

	return nil
}

func (store *Store) Get(db database.Queryable, id uuid.UUID) (*Video, error) {
	query, args, err := selectVideoBuilder().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct select video query: %w", err)
	}

	var video Video
	if err := db.Get(&video, db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}

		return nil, fmt.Errorf("failed to select video %s: %w", id, err)
	}

	return &video, nil
}

// ListForOwner returns all the videos owned by the given user, newest first.
func (store *Store) ListForOwner(db database.Queryable, ownerID uuid.UUID) ([]*Video, error) {
	query, args, err := selectVideoBuilder().
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct list videos query: %w", err)
	}

	var results []*Video
	if err := db.Select(&results, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list videos for owner %s: %w", ownerID, err)
	}

	return results, nil
}

// Update persists the mutable fields of the video. The owner and
// creation time of a video are never changed.
func (store *Store) Update(db database.Queryable, video *Video) error {
	res, err := db.Exec(`
		UPDATE videos
		SET title=$2, description=$3, video_url=$4, thumbnail_url=$5, updated_at=current_timestamp
		WHERE id=$1
	`, video.ID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL)
	if err != nil {
		return fmt.Errorf("failed to update video %s: %w", video.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrVideoNotFound
	}

	log.Emit(logger.DEBUG, "Updated video %s\n", video.ID)
	return nil
}

func (store *Store) Delete(db database.Queryable, id uuid.UUID) error {
	if _, err := db.Exec(`DELETE FROM videos WHERE id=$1`, id); err != nil {
		return fmt.Errorf("failed to delete video %s: %w", id, err)
	}

	return nil
}

func selectVideoBuilder() squirrel.SelectBuilder {
	return squirrel.
		Select("id", "owner_id", "title", "description", "video_url", "thumbnail_url", "created_at", "updated_at").
		From("videos")
}
