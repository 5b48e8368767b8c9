// Package server wires configuration, storage, media, rate limiting and the
// HTTP edge together and runs them until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/vidtube/internal/filex"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/httpapi"
	"github.com/dmitrijs2005/vidtube/internal/server/media"
	"github.com/dmitrijs2005/vidtube/internal/server/ratelimit"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	closers []io.Closer
	server  *httpapi.Server
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	app := &App{config: c, logger: logger}

	if err := app.init(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	uploadDir, err := filex.EnsureSubdDir(c.UploadTempDir)
	if err != nil {
		return fmt.Errorf("upload dir error: %w", err)
	}

	store, err := media.NewS3Store(ctx, media.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		PublicURL:    c.S3PublicURL,
	}, app.logger)
	if err != nil {
		return fmt.Errorf("media store init error: %w", err)
	}

	limiter, err := app.newLimiter(ctx)
	if err != nil {
		return err
	}

	issuer := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  []byte(c.AccessTokenSecret),
		AccessTTL:     c.AccessTokenValidityDuration,
		RefreshSecret: []byte(c.RefreshTokenSecret),
		RefreshTTL:    c.RefreshTokenValidityDuration,
	})

	app.server = httpapi.NewServer(httpapi.Options{
		Address:        c.HTTPAddr,
		CookieSecure:   c.CookieSecure,
		CORSOrigin:     c.CORSOrigin,
		UploadDir:      uploadDir,
		MaxUploadBytes: c.MaxUploadBytes,
	}, httpapi.Deps{
		Users:     services.NewUserService(db, rm, issuer, store, app.logger),
		Videos:    services.NewVideoService(db, rm, store, app.logger),
		Comments:  services.NewCommentService(db, rm),
		Likes:     services.NewLikeService(db, rm, app.logger),
		Playlists: services.NewPlaylistService(db, rm),
		Tweets:    services.NewTweetService(db, rm),
		DB:        db,
		Limiter:   limiter,
	}, app.logger)

	return nil
}

// newLimiter uses Redis when an address is configured so that several
// instances share one login budget.
func (app *App) newLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	c := app.config
	if c.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(c.LoginRateLimit, c.LoginRateWindow), nil
	}

	client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	app.closers = append(app.closers, client)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	return ratelimit.NewRedisLimiter(client, c.LoginRateLimit, c.LoginRateWindow, ""), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	app.close(context.Background())

	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(ctx, "close failed", "error", err)
		}
	}
	app.closers = nil
}
