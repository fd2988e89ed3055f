//go:build integration

package config

import (
	"context"
	"testing"
	"time"

	migration "RecipeHub-Backend/cmd/database/migrate"
	"RecipeHub-Backend/internal/utils/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRecipeLifecycleOnPostgres runs the HTTP flow against a real PostgreSQL.
func TestRecipeLifecycleOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "recipehub",
				"POSTGRES_PASSWORD": "recipehub",
				"POSTGRES_DB":       "recipehub",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}()

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := testConfig(t)
	cfg.DBDriver = "postgres"
	cfg.DBHost = host
	cfg.DBPort = port.Port()
	cfg.DBUser = "recipehub"
	cfg.DBPassword = "recipehub"
	cfg.DBName = "recipehub"
	cfg.DBSSLMode = "disable"
	cfg.DBTimeZone = "UTC"
	cfg.DBMaxOpenConns = 5
	cfg.DBMaxIdleConns = 2
	cfg.DBConnectTimeout = 10 * time.Second

	db, err := ConnectDB(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	app, err := NewApp(db, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("Failed to build app: %v", err)
	}

	owner := register(t, app, "chef1")
	fan := register(t, app, "fan")

	status, res := send(t, app, "POST", "/api/recipes", soupBody(), owner)
	if status != fiber.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%+v)", status, res)
	}
	var created recipeData
	decode(t, res.Data, &created)

	for _, rating := range []int{3, 5} {
		if status, _ := send(t, app, "POST", "/api/recipes/"+created.ID+"/ratings", fiber.Map{"rating": rating}, fan); status != fiber.StatusOK {
			t.Fatalf("rate %d: expected 200, got %d", rating, status)
		}
	}

	_, res = send(t, app, "GET", "/api/recipes?search=soup", nil, "")
	var list struct {
		Recipes []recipeData `json:"recipes"`
	}
	decode(t, res.Data, &list)
	if len(list.Recipes) != 1 || list.Recipes[0].AverageRating != 5 || list.Recipes[0].RatingCount != 1 {
		t.Errorf("unexpected list %+v", list.Recipes)
	}

	if status, _ := send(t, app, "DELETE", "/api/recipes/"+created.ID, nil, owner); status != fiber.StatusOK {
		t.Fatalf("delete: expected 200, got %d", status)
	}
	if status, _ := send(t, app, "GET", "/api/recipes/"+created.ID, nil, ""); status != fiber.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", status)
	}
}
