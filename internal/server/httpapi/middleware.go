package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

const (
	requestIDHeader = "X-Request-Id"
	userKey         = "user"
)

// requestID tags the request context so every log record of the request
// carries its id.
func (s *Server) requestID() gin.HandlerFunc {
	return requestid.New(
		requestid.WithCustomHeaderStrKey(requestIDHeader),
		requestid.WithHandler(func(c *gin.Context, id string) {
			ctx := logging.ContextWith(c.Request.Context(), "request_id", id)
			c.Request = c.Request.WithContext(ctx)
		}),
	)
}

// accessLog logs every request after it has been served.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// recovery turns a panic into a 500 envelope.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", rec)
		s.writeError(c, common.NewError(common.ErrorInternal, "Internal Server Error"))
	})
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := s.corsOrigin
		if origin == "*" {
			// credentials cannot be combined with a wildcard origin
			if o := c.GetHeader("Origin"); o != "" {
				origin = o
			}
		}
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id")
		h.Set("Access-Control-Max-Age", "86400")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requireAuth resolves the access token from the accessToken cookie or a
// bearer Authorization header and stores the user in the context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			s.writeError(c, common.NewError(common.ErrorUnauthorized, "Unauthorized request"))
			return
		}

		user, err := s.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.writeError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if v, err := c.Cookie(accessTokenCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader(common.AuthorizationHeaderName)
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// currentUser returns the user stored by requireAuth.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// loginRateLimit throttles login attempts per client IP. Limiter errors
// let the request through.
func (s *Server) loginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		allowed, retry, err := s.limiter.Allow(ctx, "login:"+c.ClientIP())
		if err != nil {
			s.logger.Warn(ctx, "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			s.metrics.rateLimited.Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			s.writeError(c, common.NewError(common.ErrorTooManyRequests, "Too many login attempts, please try again later"))
			return
		}
		c.Next()
	}
}

// limitBody caps the request body for upload routes.
func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
		c.Next()
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
