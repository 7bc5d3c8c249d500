// Package server initializes and runs the photo ingestion server.
// It wires the catalog, object store and queue behind the FTP listener,
// runs migrations, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/photodrop/photodrop/internal/logging"
	"github.com/photodrop/photodrop/internal/server/config"
	"github.com/photodrop/photodrop/internal/server/ftp"
	"github.com/photodrop/photodrop/internal/server/migrations"
	"github.com/photodrop/photodrop/internal/server/objectstore"
	"github.com/photodrop/photodrop/internal/server/repositories/albums"
	"github.com/photodrop/photodrop/internal/server/repositories/jobs"
	"github.com/photodrop/photodrop/internal/server/repositories/photos"
	"github.com/photodrop/photodrop/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	sessions   *services.SessionService
	dispatcher *services.Dispatcher
	ftpServer  *ftp.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := objectstore.NewS3Store(ctx, objectstore.S3Options{
		User:         cfg.S3RootUser,
		Password:     cfg.S3RootPassword,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		Bucket:       cfg.S3Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	if err := os.MkdirAll(cfg.TempRoot, 0o750); err != nil {
		return nil, fmt.Errorf("temp root error: %w", err)
	}

	sessions := services.NewSessionService(albums.NewPostgresRepository(db), cfg.TempRoot, logger)
	ingest := services.NewIngestService(store,
		photos.NewPostgresRepository(db), jobs.NewPostgresRepository(db), cfg.TempRoot, logger)
	dispatcher := services.NewDispatcher(ingest, cfg.MaxConcurrentIngests)

	driver := ftp.NewDriver(cfg, sessions, dispatcher, logger)
	ftpServer := ftp.NewServer(driver)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		sessions:   sessions,
		dispatcher: dispatcher,
		ftpServer:  ftpServer,
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startFTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.ftpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// superviseResults logs every handoff outcome from the dispatcher's result
// channel until it is closed by Drain.
func (app *App) superviseResults(ctx context.Context) {
	for res := range app.dispatcher.Results() {
		if res.Err != nil {
			app.logger.Error(ctx, "ingest failed",
				"album_id", res.Upload.AlbumID, "filename", res.Upload.Filename, "error", res.Err.Error())
			continue
		}
		app.logger.Info(ctx, "ingest completed",
			"album_id", res.Upload.AlbumID, "photo_id", res.Photo.ID)
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var supervisorWG, serverWG sync.WaitGroup

	supervisorWG.Add(1)
	go func() {
		defer supervisorWG.Done()
		app.superviseResults(ctx)
	}()

	serverWG.Add(1)
	go func() {
		defer serverWG.Done()
		app.startFTPServer(ctx, cancelFunc)
	}()

	<-ctx.Done()

	// Wait for the listener to stop, then drain. Stopping the listener does
	// not wait for connected sessions; a transfer completing after this
	// point is dropped by the dispatcher and its artifact stays in the
	// session root.
	serverWG.Wait()
	app.dispatcher.Drain()
	supervisorWG.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
}
