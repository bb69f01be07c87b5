package container

import (
	"context"
	"fmt"
	"log"

	"gapdash/adapters/excel"
	"gapdash/adapters/gapminder"
	"gapdash/adapters/llm"
	"gapdash/adapters/postgres"
	"gapdash/app"
	domain "gapdash/domain/gapminder"
	"gapdash/internal/config"
	"gapdash/internal/errors"
	"gapdash/internal/migration"
	"gapdash/internal/usage"
	"gapdash/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// memoryUsageLimit bounds the in-process usage log used without a database
const memoryUsageLimit = 1000

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Data
	Provider ports.DatasetProvider
	Dataset  *domain.Dataset

	// Usage log
	UsageRepo    ports.LLMUsageRepository
	UsageService *usage.Service

	// Services
	Client    ports.CompletionClient
	Dashboard *app.DashboardService
	Summaries *app.SummaryService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// Init loads the dataset and wires every service
func (c *Container) Init(ctx context.Context) error {
	if err := c.initDataset(ctx); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if err := c.initUsage(ctx); err != nil {
		return fmt.Errorf("failed to initialize usage log: %w", err)
	}
	if err := c.initAI(); err != nil {
		return fmt.Errorf("failed to initialize AI client: %w", err)
	}

	c.Dashboard = app.NewDashboardService(c.Dataset, app.NewChartService())
	c.Summaries = app.NewSummaryService(c.Client, app.SummaryConfig{
		Model:         c.Config.AI.Model,
		SystemContext: c.Config.AI.SystemContext,
		MaxTokens:     c.Config.AI.MaxTokens,
		Timeout:       c.Config.AI.Timeout,
		MaxConcurrent: c.Config.AI.MaxConcurrent,
	}, c.UsageService)

	log.Printf("Container initialized: %d records, %d continents, summaries enabled=%v",
		c.Dataset.Len(), len(c.Dataset.Continents()), c.Client != nil)
	return nil
}

// initDataset picks the file provider when DATASET_FILE is set, else the embedded data
func (c *Container) initDataset(ctx context.Context) error {
	var inner ports.DatasetProvider
	if c.Config.Data.File != "" {
		log.Printf("Using dataset file: %s", c.Config.Data.File)
		inner = excel.NewFileProvider(c.Config.Data.File, c.Config.Data.Sheet, c.Config.Data.Year)
	} else {
		log.Printf("No dataset file configured, using embedded Gapminder data")
		inner = gapminder.NewEmbeddedProvider(c.Config.Data.Year)
	}
	c.Provider = gapminder.Cached(inner)

	ds, err := c.Provider.Load(ctx)
	if err != nil {
		return err
	}
	c.Dataset = ds
	return nil
}

// initUsage persists usage to postgres when DATABASE_URL is set, otherwise keeps it in memory
func (c *Container) initUsage(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.UsageRepo = usage.NewMemoryRepository(memoryUsageLimit)
		c.UsageService = usage.NewService(c.UsageRepo)
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.DatabaseError("failed to ping database", err)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.UsageRepo = postgres.NewLLMUsageRepository(db)
	c.UsageService = usage.NewService(c.UsageRepo)
	log.Printf("Usage log persisted to postgres (schema %s)", migrator.Version())
	return nil
}

func (c *Container) initAI() error {
	if !c.Config.AI.Enabled() {
		log.Printf("OPENAI_API_KEY not set, summaries disabled")
		return nil
	}

	client, err := llm.NewOpenAIClient(llm.Config{
		APIKey:  c.Config.AI.OpenAIKey,
		BaseURL: c.Config.AI.BaseURL,
		Timeout: c.Config.AI.Timeout,
	})
	if err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	c.Client = client
	return nil
}

// Shutdown flushes pending usage writes and closes the database
func (c *Container) Shutdown(ctx context.Context) error {
	if c.UsageService != nil {
		c.UsageService.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
