// Package common contains shared constants and sentinel errors used across
// vidtube components.
package common

// Cookie names carrying the session tokens. The refresh endpoint also accepts
// the refresh token in a JSON body under the same key.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// AuthorizationHeaderName is the HTTP header consulted when the access token
// cookie is absent ("Bearer <token>").
const AuthorizationHeaderName = "Authorization"
