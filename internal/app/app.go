// Package app assembles repositories and services from configuration so the
// HTTP gateway and the admin CLI share one wiring.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/repository"
	"github.com/00DarkGhost00/Tracking-absence/internal/service"
	"github.com/00DarkGhost00/Tracking-absence/pkg/cache"
	"github.com/00DarkGhost00/Tracking-absence/pkg/config"
	"github.com/00DarkGhost00/Tracking-absence/pkg/database"
	"github.com/00DarkGhost00/Tracking-absence/pkg/jobs"
	"github.com/00DarkGhost00/Tracking-absence/pkg/storage"
)

// App holds every long-lived component.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Names  *canonical.Normalizer

	Metrics    *service.MetricsService
	Cache      *service.CacheService
	Semester   *service.SemesterService
	Timetable  *service.TimetableService
	Holidays   *service.HolidayService
	Absences   *service.AbsenceService
	Makeups    *service.MakeupService
	Ledger     *service.LedgerService
	Professors *service.ProfessorService
	Dashboard  *service.DashboardService
	Tokens     *service.TokenService

	// Reports and ReportQueue are nil unless reports are enabled.
	Reports     *service.ReportService
	ReportQueue *jobs.Queue

	watcher *canonical.Watcher
}

// New opens the store, optionally migrates it, and builds every service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	a := &App{Config: cfg, Logger: logger, DB: db, Metrics: service.NewMetricsService()}
	renames, err := a.loadNames()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.connectCache(ctx)
	a.build()
	if err := a.Professors.ApplyRenames(ctx, renames); err != nil {
		a.Close()
		return nil, fmt.Errorf("apply professor corrections: %w", err)
	}
	if cfg.Reports.Enabled {
		if err := a.buildReports(); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) loadNames() ([]canonical.Rename, error) {
	a.Names = canonical.NewNormalizer(nil)
	path := a.Config.Canonical.CorrectionsFile
	if path == "" {
		return nil, nil
	}
	renames, err := a.Names.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load professor corrections: %w", err)
	}
	a.Logger.Info("professor corrections loaded", zap.String("path", path), zap.Int("entries", a.Names.Len()))
	return renames, nil
}

func (a *App) connectCache(ctx context.Context) {
	var repo service.CacheRepository
	if a.Config.Cache.Enabled {
		client, err := cache.NewRedis(ctx, a.Config.Redis)
		if err != nil {
			a.Logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			a.Redis = client
			repo = repository.NewCacheRepository(client, "tracking")
		}
	}
	a.Cache = service.NewCacheService(repo, a.Metrics, a.Config.Cache.HoursTTL, a.Logger, repo != nil)
}

func (a *App) build() {
	validate := validator.New()
	timetable := repository.NewTimetableRepository(a.DB)
	holidays := repository.NewHolidayRepository(a.DB)
	absences := repository.NewAbsenceRepository(a.DB)
	makeups := repository.NewMakeupRepository(a.DB)
	statuses := repository.NewProfessorStatusRepository(a.DB)
	configs := repository.NewConfigurationRepository(a.DB)

	a.Semester = service.NewSemesterService(configs, []service.Resetter{makeups, absences, timetable}, a.DB, a.Cache, validate,
		a.Logger.Named("semester"), service.SemesterServiceConfig{
			DefaultStart: a.Config.Semester.DefaultStart,
			DefaultEnd:   a.Config.Semester.DefaultEnd,
		})
	a.Timetable = service.NewTimetableService(timetable, absences, a.DB, a.Names, a.Cache, validate, a.Logger.Named("timetable"))
	a.Holidays = service.NewHolidayService(holidays, a.Cache, validate, a.Logger.Named("holidays"))
	a.Absences = service.NewAbsenceService(absences, timetable, a.DB, a.Names, a.Cache, a.Metrics, validate, a.Logger.Named("absences"))
	a.Makeups = service.NewMakeupService(makeups, timetable, a.DB, a.Names, a.Cache, a.Metrics, validate, a.Logger.Named("makeups"))
	a.Ledger = service.NewLedgerService(a.Semester, holidays, timetable, absences, makeups, statuses, a.Names, a.Cache, a.Logger.Named("ledger"))
	a.Professors = service.NewProfessorService(statuses, timetable, repository.NewProfessorRepository(a.DB), a.DB, a.Names, a.Cache, validate, a.Logger.Named("professors"))
	a.Dashboard = service.NewDashboardService(service.DashboardServiceParams{
		Absences: absences,
		Makeups:  makeups,
		Ledger:   a.Ledger,
		Cache:    a.Cache,
		Logger:   a.Logger.Named("dashboard"),
		Config:   service.DashboardServiceConfig{CacheTTL: a.Config.Cache.HoursTTL},
	})
	a.Tokens = service.NewTokenService(service.TokenConfig{
		Secret: a.Config.JWT.Secret,
		Expiry: a.Config.JWT.Expiration,
		Issuer: a.Config.JWT.Issuer,
	})
}

func (a *App) buildReports() error {
	cfg := a.Config.Reports
	store, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return fmt.Errorf("prepare report storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.SignedURLSecret, cfg.SignedURLTTL)
	exporter := service.NewExportService(
		repository.NewAbsenceRepository(a.DB),
		repository.NewMakeupRepository(a.DB),
		a.Ledger,
		store,
		signer,
		service.ExportConfig{APIPrefix: a.Config.APIPrefix, ResultTTL: cfg.SignedURLTTL},
		a.Logger.Named("export"),
	)
	jobsRepo := repository.NewReportRepository(a.DB)
	worker := service.NewReportWorker(jobsRepo, exporter, cfg.WorkerRetries, a.Logger.Named("report-worker"))
	a.ReportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     a.Logger,
	})
	a.Reports = service.NewReportService(jobsRepo, a.ReportQueue, exporter, a.Names, validator.New(), a.Logger.Named("reports"),
		service.ReportServiceConfig{ResultTTL: cfg.SignedURLTTL, CleanupInterval: cfg.CleanupInterval})
	return nil
}

// Start launches background work: the report queue, its recovery and
// cleanup, and the corrections file watcher.
func (a *App) Start(ctx context.Context) {
	if a.ReportQueue != nil {
		a.ReportQueue.Start(ctx)
		a.Reports.RecoverPendingJobs(ctx)
		a.Reports.StartCleanup(ctx)
	}
	path := a.Config.Canonical.CorrectionsFile
	if path == "" || !a.Config.Canonical.Watch {
		return
	}
	watcher, err := canonical.NewWatcher(path, a.Names, a.Logger.Named("corrections"))
	if err != nil {
		a.Logger.Warn("corrections watcher unavailable", zap.Error(err))
		return
	}
	watcher.OnReload = func(ctx context.Context, renames []canonical.Rename) {
		if err := a.Professors.ApplyRenames(ctx, renames); err != nil {
			a.Logger.Warn("professor renames failed", zap.Int("renames", len(renames)), zap.Error(err))
		}
	}
	if err := watcher.Start(ctx); err != nil {
		a.Logger.Warn("corrections watcher failed to start", zap.Error(err))
		return
	}
	a.watcher = watcher
}

// Close stops background work and releases connections.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.ReportQueue != nil {
		a.ReportQueue.Stop()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
