package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = common.AccessTokenCookieName
	refreshTokenCookie = common.RefreshTokenCookieName
)

// setSessionCookies writes both tokens as HttpOnly session cookies
// without an expiry.
func (s *Server) setSessionCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, pair.AccessToken, 0, "/", "", s.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken, 0, "/", "", s.cookieSecure, true)
}

func (s *Server) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", s.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", s.cookieSecure, true)
}
