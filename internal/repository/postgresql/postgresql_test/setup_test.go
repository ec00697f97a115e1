package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/timenest/timenest-backend-go/internal/pkg/database"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// setupTestDB returns a migrated database. TEST_DATABASE_URL is used when set,
// otherwise a PostgreSQL container is started once for the whole package.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	if os.Getenv("TEST_DATABASE_URL") == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	once.Do(func() {
		sharedDSN = os.Getenv("TEST_DATABASE_URL")
		if sharedDSN == "" {
			sharedDSN, initErr = startContainer()
		}
		if initErr != nil {
			return
		}
		initErr = migrate(sharedDSN)
	})
	if initErr != nil {
		t.Fatalf("failed to setup test database: %v", initErr)
	}

	db, pool, err := database.NewPostgreSQLDB(sharedDSN, database.Options{MaxConns: 20, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	truncate(t, db)
	return db
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "timenest_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("postgres://testuser:testpass@%s:%s/timenest_test?sslmode=disable", host, port.Port()), nil
}

func migrate(dsn string) error {
	_, pool, err := database.NewPostgreSQLDB(dsn, database.Options{MaxConns: 2, MinConns: 1})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	return database.Migrate(context.Background(), pool)
}

func truncate(t *testing.T, db *database.DB) {
	t.Helper()
	if _, err := db.Exec(context.Background(), "TRUNCATE TABLE attendances, users CASCADE"); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func insertUser(t *testing.T, db *database.DB, id, name, email, role string, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (id, name, email, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, name, email, role, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to insert user %s: %v", email, err)
	}
}
