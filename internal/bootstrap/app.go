package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"packaging-backend/internal/decisionlog"
	"packaging-backend/internal/fragility"
	"packaging-backend/internal/images"
	"packaging-backend/internal/packaging"
	"packaging-backend/internal/recommend"
	"packaging-backend/internal/report"
	"packaging-backend/internal/services/health"
	"packaging-backend/internal/shared/config"
	"packaging-backend/internal/shared/server"
	"packaging-backend/internal/shared/storage/db"
	"packaging-backend/internal/shared/storage/object"
	localstore "packaging-backend/internal/shared/storage/object/local"
	s3store "packaging-backend/internal/shared/storage/object/s3"
	"packaging-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	ImagesRepo       images.Repo
	ImagesService    *images.Service
	RecommendService *recommend.Service
	Decisions        *decisionlog.Logger

	closers []io.Closer
}

// Build prepares every dependency and wires the routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}

	sink, err := app.buildDecisionSink(ctx)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Decisions = decisionlog.NewLogger(sink, cfg.DecisionLog.Buffer, decisionlog.DefaultWriteTimeout)

	app.buildServices()

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Health:           health.NewService(sqlDB),
		ImageHandler:     images.NewHandler(app.ImagesService),
		RecommendHandler: recommend.NewHandler(app.RecommendService),
	})

	return app, nil
}

// Close drains the decision log and releases files and connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Decisions != nil {
		if err := a.Decisions.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain decision log: %w", err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			closeDB(sqlDB)
			sqlDB = nil
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildDecisionSink assembles the configured sinks. Remote sinks sit behind
// a circuit breaker so an outage costs one fast failure per record.
func (a *App) buildDecisionSink(ctx context.Context) (decisionlog.Sink, error) {
	var sinks []decisionlog.Sink
	for _, name := range a.Config.DecisionLog.Sinks {
		switch name {
		case config.SinkFile:
			path := a.Config.DecisionLog.Path
			if path == "" {
				path = decisionlog.DefaultFilePath
			}
			fs := decisionlog.NewFileSink(path)
			a.closers = append(a.closers, fs)
			sinks = append(sinks, fs)
		case config.SinkPostgres:
			if a.DB == nil {
				telemetry.Warn("bootstrap.decision_sink_skipped", map[string]any{"sink": name, "reason": "no database"})
				continue
			}
			sinks = append(sinks, decisionlog.NewBreaker(&decisionlog.PGSink{DB: a.DB}, decisionlog.DefaultBreakerConfig("decisions-pg")))
		case config.SinkSQS:
			qs, err := decisionlog.NewSQSSink(ctx, a.Config.AWSRegion, a.Config.DecisionLog.QueueURL)
			if err != nil {
				return nil, fmt.Errorf("decision queue: %w", err)
			}
			sinks = append(sinks, decisionlog.NewBreaker(qs, decisionlog.DefaultBreakerConfig("decisions-sqs")))
		default:
			return nil, fmt.Errorf("unknown decision log sink %q", name)
		}
	}
	return decisionlog.Multi(sinks...), nil
}

func (a *App) buildServices() {
	if a.DB != nil {
		a.ImagesRepo = &images.PGRepo{DB: a.DB}
	} else {
		a.ImagesRepo = images.NewMemoryRepo()
	}

	a.ImagesService = &images.Service{
		Store:           a.Store,
		Repo:            a.ImagesRepo,
		Classifier:      fragility.NewClassifier(fragility.DefaultThresholds()),
		StorageProvider: a.Config.ObjectStoreType,
		MaxBytes:        a.Config.MaxUploadBytes,
	}

	a.RecommendService = &recommend.Service{
		Calculator: packaging.NewCalculator(packaging.NewDefaultPolicy()),
		Images:     a.ImagesService,
		Decisions:  a.Decisions,
		Renderer:   report.NewPDFRenderer(),
		Store:      a.Store,
	}
}

func closeDB(d *sql.DB) {
	if d != nil {
		_ = d.Close()
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
