// Package auth signs and verifies the two kinds of session tokens: short-lived
// access tokens carrying the user's public identity and long-lived refresh
// tokens carrying only the subject. Each kind has its own HMAC secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig holds the secrets and lifetimes for both token kinds.
type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// UserClaims is the identity embedded into an access token.
type UserClaims struct {
	UserID   string
	Username string
	Email    string
	FullName string
}

// AccessClaims are the decoded claims of an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// RefreshClaims are the decoded claims of a refresh token. Only the subject
// is carried; ID is random so two tokens minted in the same second differ.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

func (i *TokenIssuer) IssueAccessToken(c UserClaims) (string, error) {
	now := i.now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTTL)),
		},
		Username: c.Username,
		Email:    c.Email,
		FullName: c.FullName,
	}
	return sign(claims, i.cfg.AccessSecret)
}

func (i *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}
	now := i.now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshTTL)),
		},
	}
	return sign(claims, i.cfg.RefreshSecret)
}

// VerifyAccessToken checks signature, algorithm and expiry of an access token.
func (i *TokenIssuer) VerifyAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(token, claims, i.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks signature, algorithm and expiry of a refresh token.
// Errors are common.ErrTokenExpired or common.ErrInvalidToken.
func (i *TokenIssuer) VerifyRefreshToken(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(token, claims, i.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (i *TokenIssuer) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return fmt.Errorf("%w: %s", common.ErrInvalidToken, err.Error())
	}
	if !parsed.Valid {
		return common.ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}
	return nil
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
