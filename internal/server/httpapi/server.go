// Package httpapi is the REST edge of the server: gin routing, the response
// envelope, session cookies and the authentication guard.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Options are the transport settings taken from the server config.
type Options struct {
	Address        string
	CookieSecure   bool
	CORSOrigin     string
	UploadDir      string
	MaxUploadBytes int64
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Users     UserService
	Videos    VideoService
	Comments  CommentService
	Likes     LikeService
	Playlists PlaylistService
	Tweets    TweetService
	DB        Pinger
	Limiter   ratelimit.Limiter
}

type Server struct {
	address        string
	cookieSecure   bool
	corsOrigin     string
	uploadDir      string
	maxUploadBytes int64

	users     UserService
	videos    VideoService
	comments  CommentService
	likes     LikeService
	playlists PlaylistService
	tweets    TweetService
	db        Pinger
	limiter   ratelimit.Limiter

	logger  logging.Logger
	metrics *metrics
	router  *gin.Engine
}

func NewServer(opts Options, deps Deps, l logging.Logger) *Server {
	s := &Server{
		address:        opts.Address,
		cookieSecure:   opts.CookieSecure,
		corsOrigin:     opts.CORSOrigin,
		uploadDir:      opts.UploadDir,
		maxUploadBytes: opts.MaxUploadBytes,
		users:          deps.Users,
		videos:         deps.Videos,
		comments:       deps.Comments,
		likes:          deps.Likes,
		playlists:      deps.Playlists,
		tweets:         deps.Tweets,
		db:             deps.DB,
		limiter:        deps.Limiter,
		logger:         l.With("module", "http_server"),
		metrics:        newMetrics(),
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
