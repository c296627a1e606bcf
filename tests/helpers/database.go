package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/hbomb79/Tubely/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	User         = "postgres"
	Password     = "postgres"
	MasterDBName = "TUBELY_DB"
)

// RequireDatabase spawns a disposable Postgres container and returns a
// database manager which is connected and fully migrated. The container
// is torn down when the test completes.
//
// Tests using this helper are skipped when running with -short, as
// they require a docker daemon.
func RequireDatabase(t *testing.T) database.Manager {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	postgresC, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:14.1-alpine"),
		postgres.WithDatabase(MasterDBName),
		postgres.WithUsername(User),
		postgres.WithPassword(Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}
	t.Cleanup(func() {
		t.Log("Tearing down Postgres container...")
		if err := postgresC.Terminate(ctx); err != nil {
			t.Logf("WARNING: failed to terminate Postgres container: %s", err)
		}
	})

	host, err := postgresC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %s", err)
	}
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %s", err)
	}

	manager := database.New()
	if err := manager.Connect(ctx, database.DatabaseConfig{
		User:     User,
		Password: Password,
		Name:     MasterDBName,
		Host:     host,
		Port:     port.Port(),
	}); err != nil {
		t.Fatalf("failed to connect to database: %s", err)
	}
	t.Cleanup(func() { _ = manager.Close() })

	return manager
}
