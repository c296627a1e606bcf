package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/Tubely/internal/api"
	"github.com/hbomb79/Tubely/internal/database"
	"github.com/hbomb79/Tubely/internal/ffmpeg"
	"github.com/hbomb79/Tubely/internal/storage"
	"github.com/hbomb79/Tubely/internal/thumbnail"
	"github.com/hbomb79/Tubely/internal/upload"
	"github.com/hbomb79/Tubely/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}

	// Tubely is the top-level object for the server, and is responsible
	// for connecting to the database and object store, and for constructing
	// the services which sit on top of them.
	tubelyImpl struct {
		config TubelyConfig
		db     database.Manager
	}
)

func New(config TubelyConfig) *tubelyImpl {
	log.Emit(logger.DEBUG, "Bootstrapping Tubely services using config: %s\n", config)
	return &tubelyImpl{config: config, db: database.New()}
}

// Run will start Tubely by connecting to the database and object store before
// starting the REST gateway.
//
// This function will not return until Tubely is stopped.
// To stop Tubely, the provided context must be cancelled. Errors from which Tubely cannot recover
// will also cause Tubely to stop.
func (tubely *tubelyImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel(fmt.Errorf("%s crashed: %w", label, err))
	}

	log.Emit(logger.NEW, "Connecting to database...\n")
	if err := tubely.db.Connect(ctx, tubely.config.Database); err != nil {
		return err
	}
	defer tubely.db.Close()

	log.Emit(logger.NEW, "Connecting to object store...\n")
	objects, err := storage.NewS3Store(ctx, tubely.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to construct object store: %w", err)
	}

	runner := ffmpeg.NewRunner()
	service := upload.NewService(
		tubely.config.Upload,
		newDataOrchestrator(tubely.db),
		ffmpeg.NewProber(runner, tubely.config.Ffmpeg),
		ffmpeg.NewRemuxer(runner, tubely.config.Ffmpeg),
		objects,
		thumbnail.NewRegistry(),
	)

	wg := &sync.WaitGroup{}
	tubely.spawnAsyncService(ctx, wg, api.NewRestGateway(&tubely.config.RestConfig, service), "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "Tubely services spawned!\n")

	wg.Wait()
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// spawnAsyncService will run the provided function/service as it's own
// go-routine, ensuring that the service waitgroup is updated correctly
func (tubely *tubelyImpl) spawnAsyncService(ctx context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		defer wg.Done()
		if err := service.Run(ctx); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
