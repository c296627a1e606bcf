package internal

import (
	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/database"
	"github.com/hbomb79/Tubely/internal/media"
	"github.com/jmoiron/sqlx"
)

type (
	// dataOrchestrator links the 'dumb' data stores to the database
	// connection, and is responsible for ensuring that multi-step
	// changes happen transactionally.
	dataOrchestrator struct {
		db         database.Manager
		MediaStore *media.Store
	}
)

func newDataOrchestrator(db database.Manager) *dataOrchestrator {
	return &dataOrchestrator{
		db:         db,
		MediaStore: media.NewStore(),
	}
}

func (orchestrator *dataOrchestrator) GetVideo(id uuid.UUID) (*media.Video, error) {
	return orchestrator.MediaStore.Get(orchestrator.db.GetSqlxDb(), id)
}

func (orchestrator *dataOrchestrator) ListVideos(ownerID uuid.UUID) ([]*media.Video, error) {
	return orchestrator.MediaStore.ListForOwner(orchestrator.db.GetSqlxDb(), ownerID)
}

func (orchestrator *dataOrchestrator) CreateVideo(video *media.Video) error {
	return orchestrator.MediaStore.Create(orchestrator.db.GetSqlxDb(), video)
}

// UpdateVideo saves the video and refreshes its timestamps from the
// stored row, within a single transaction.
func (orchestrator *dataOrchestrator) UpdateVideo(video *media.Video) error {
	return orchestrator.db.WrapTx(func(tx *sqlx.Tx) error {
		if err := orchestrator.MediaStore.Update(tx, video); err != nil {
			return err
		}

		saved, err := orchestrator.MediaStore.Get(tx, video.ID)
		if err != nil {
			return err
		}

		video.CreatedAt = saved.CreatedAt
		video.UpdatedAt = saved.UpdatedAt
		return nil
	})
}

func (orchestrator *dataOrchestrator) DeleteVideo(id uuid.UUID) error {
	return orchestrator.MediaStore.Delete(orchestrator.db.GetSqlxDb(), id)
}
