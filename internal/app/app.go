package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"seoadmin/internal/config"
	"seoadmin/internal/domain"
	"seoadmin/internal/infrastructure/llm"
	"seoadmin/internal/infrastructure/scheduler"
	"seoadmin/internal/infrastructure/storage"
	"seoadmin/internal/logging"
	"seoadmin/internal/ports"
	"seoadmin/internal/usecase"
	"seoadmin/internal/web"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	db        *sql.DB
	logger    *slog.Logger
	Pages     *usecase.Pages
	Analyzer  *usecase.Analyzer
	Review    *usecase.Review
	Orch      *usecase.Orchestrator
	Reporting *usecase.Reporting
	Publisher *usecase.Publisher
	server    *web.Server
	driver    ports.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	pagesRepo := storage.NewPageRepository(db)
	reportsRepo := storage.NewReportRepository(db)
	issuesRepo := storage.NewIssueRepository(db)
	historyRepo := storage.NewHistoryRepository(db)

	var delegate ports.Delegate
	if cfg.OpenAI.APIKey != "" {
		delegate = llm.NewClient(cfg.OpenAI)
	} else {
		baseLogger.Warn("no delegate API key configured, analysis will use fallback issues")
		delegate = unavailableDelegate{}
	}

	pages := usecase.NewPages(pagesRepo, baseLogger.With("component", "pages"))
	analyzer := usecase.NewAnalyzer(usecase.AnalyzerDeps{
		Pages:           pagesRepo,
		Reports:         reportsRepo,
		Issues:          issuesRepo,
		Delegate:        delegate,
		Logger:          baseLogger.With("component", "analyzer"),
		SnapshotLimit:   cfg.Analysis.SnapshotLimit,
		MaxContentChars: cfg.Analysis.MaxContentChars,
	})
	orch := usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Pages:   pagesRepo,
		Issues:  issuesRepo,
		History: historyRepo,
		Logger:  baseLogger.With("component", "orchestrator"),
	})
	review := usecase.NewReview(usecase.ReviewDeps{
		Issues:       issuesRepo,
		Reports:      reportsRepo,
		Delegate:     delegate,
		Orchestrator: orch,
		Logger:       baseLogger.With("component", "review"),
	})
	reporting := usecase.NewReporting(reportsRepo, issuesRepo)
	publisher := usecase.NewPublisher(pagesRepo, baseLogger.With("component", "publisher"))

	server := web.NewServer(web.Deps{
		Pages:        pages,
		Analyzer:     analyzer,
		Review:       review,
		Orchestrator: orch,
		Reporting:    reporting,
		Reports:      reportsRepo,
		Issues:       issuesRepo,
		History:      historyRepo,
		Logger:       baseLogger.With("component", "web"),
	})

	return &Application{
		cfg:       cfg,
		db:        db,
		logger:    baseLogger,
		Pages:     pages,
		Analyzer:  analyzer,
		Review:    review,
		Orch:      orch,
		Reporting: reporting,
		Publisher: publisher,
		server:    server,
		driver:    scheduler.NewTickerScheduler(cfg.Publisher.Interval()),
	}, nil
}

// Serve runs the admin API and the scheduled-post publisher until ctx ends.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.driver.Start(ctx, a.Publisher.Job(ctx)); err != nil {
		return fmt.Errorf("start publisher: %w", err)
	}
	defer a.driver.Stop(context.Background())

	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("admin API listening", "addr", a.cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the storage handle.
func (a *Application) Close() error {
	return a.db.Close()
}

// unavailableDelegate always errors, forcing the analyzer's fallback path
// when no API key is configured.
type unavailableDelegate struct{}

var _ ports.Delegate = unavailableDelegate{}

func (unavailableDelegate) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.IssueDraft, error) {
	return nil, &domain.DelegateError{Op: "analyze", Err: errNoDelegate}
}

func (unavailableDelegate) Regenerate(ctx context.Context, req domain.RegenerateRequest) (string, error) {
	return "", &domain.DelegateError{Op: "regenerate", Err: errNoDelegate}
}

var errNoDelegate = errors.New("delegate not configured")
