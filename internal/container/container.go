package container

import (
	"context"
	"fmt"

	"gorcr/adapters/postgres"
	"gorcr/adapters/render"
	"gorcr/app"
	"gorcr/internal"
	"gorcr/internal/config"
	"gorcr/internal/errors"
	"gorcr/internal/metrics"
	"gorcr/internal/migration"
	"gorcr/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB      *sqlx.DB
	Metrics *metrics.Registry

	// Repositories (data access layer); nil without a database
	RunRepo ports.RunRepository

	// Services
	Analysis *app.AnalysisService
	Renderer *render.Graphviz
}

// New creates the container. The analysis service starts without persistence;
// InitWithDatabase attaches it.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.DefaultRegistry(),
	}
	c.Renderer = render.NewGraphviz(cfg.Render.GraphvizBin, cfg.Render.DPI, logger)

	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect opens the configured database, applies migrations and wires the run
// repository. It is a no-op when no database URL is configured.
func (c *Container) Connect(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("[Container] no DATABASE_URL, runs will not be persisted")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return errors.Wrap(err, "database migration failed")
	}
	return c.InitWithDatabase(db)
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db
	c.RunRepo = postgres.NewRunRepository(db)

	if err := c.initServices(); err != nil {
		return err
	}
	c.Logger.Info("[Container] run persistence enabled")
	return nil
}

func (c *Container) initServices() error {
	svc, err := app.NewAnalysisService(app.ServiceOptions{
		Thresholds: c.Config.Analysis.Thresholds(),
		Workers:    c.Config.Analysis.Workers,
		RunRepo:    c.RunRepo,
		Metrics:    c.Metrics,
		Logger:     c.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create analysis service: %w", err)
	}
	c.Analysis = svc
	return nil
}

// Inputs loads the configured input tables
func (c *Container) Inputs() (app.Inputs, error) {
	return app.LoadInputs(app.InputFilesFromConfig(c.Config), c.Logger)
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
