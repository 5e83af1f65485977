package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	timeline "github.com/goliatone/go-timeline"
	"github.com/goliatone/go-timeline/cmd/server/config"
	"github.com/goliatone/go-timeline/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config   *gconfig.Container[*config.BaseConfig]
	bunDB    *bun.DB
	srv      router.Server[*fiber.App]
	logger   *glog.BaseLogger
	timeline *timeline.Service
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("timeline"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "8978",
		},
		Persistence: config.PersistenceConfig{
			Debug:          true,
			Driver:         "sqlite",
			Server:         "file::memory:?cache=shared",
			PingTimeout:    5 * time.Second,
			OtelIdentifier: "go-timeline-server",
		},
		Timeline: config.TimelineConfig{
			PageSize:     50,
			CacheEnabled: true,
			SeedDemoData: true,
		},
	}).WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	fmt.Println("============")

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithTimelineService(ctx, app); err != nil {
		panic(err)
	}

	if app.Config().GetTimeline().SeedDemoData {
		if err := seedDemoActivity(ctx, app); err != nil {
			panic(err)
		}
	}

	WithHTTPServer(ctx, app)
	RegisterAPIRoutes(app)

	serverCfg := app.Config().GetServer()
	addr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	log.Printf("Starting server on http://%s\n", addr)
	app.srv.Serve(addr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	cfg := app.config.Raw().GetPersistence()
	dsn := cfg.GetServer()
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return err
	}

	persistence.RegisterModel((*store.EventRow)(nil))
	persistence.RegisterModel((*store.PersonRow)(nil))

	bunClient, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return err
	}

	bunClient.SetLogger(app.GetLogger("persistence"))

	// Sub-FS rooted at data/sql/migrations so the loader can find the files
	migrationsFS, err := fs.Sub(timeline.MigrationsFS, "data/sql/migrations")
	if err != nil {
		return err
	}

	bunClient.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("."),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := bunClient.ValidateDialects(ctx); err != nil {
		log.Printf("Warning: dialect validation failed: %v", err)
	}

	if err := bunClient.Migrate(ctx); err != nil {
		return err
	}

	if report := bunClient.Report(); report != nil && !report.IsZero() {
		fmt.Printf("report: %s\n", report.String())
	}

	app.bunDB = bunClient.DB()

	return nil
}

func WithTimelineService(ctx context.Context, app *App) error {
	svc, err := timeline.New(timeline.Config{
		DB:           app.bunDB,
		Logger:       &loggerAdapter{app.GetLogger("timeline")},
		CacheEnabled: app.Config().GetTimeline().CacheEnabled,
	})
	if err != nil {
		return err
	}
	app.timeline = svc
	return nil
}

func WithHTTPServer(ctx context.Context, app *App) {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		})
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	app.srv = srv
}

// loggerAdapter adapts glog.Logger to types.Logger
type loggerAdapter struct {
	l glog.Logger
}

func (a *loggerAdapter) Debug(msg string, args ...any) {
	a.l.Debug(msg, args...)
}

func (a *loggerAdapter) Info(msg string, args ...any) {
	a.l.Info(msg, args...)
}

func (a *loggerAdapter) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"error", err}, args...)
	}
	a.l.Error(msg, args...)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
