// Package services contains server-side business logic. Services own the
// transaction boundaries and translate repository errors into classified
// *common.Error values that the HTTP edge renders.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService mints token pairs and keeps the user's single refresh token
// slot in sync with what was handed out.
type TokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.TokenIssuer
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.TokenIssuer) *TokenService {
	return &TokenService{db: db, repomanager: m, issuer: issuer}
}

// IssuePair loads the user, signs both tokens and stores the refresh token,
// overwriting whatever session the user had before.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while generating refresh and access token", err)
	}

	pair, err := s.mint(user)
	if err != nil {
		return nil, err
	}

	if err := repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while generating refresh and access token", err)
	}
	return pair, nil
}

// RotatePair replaces oldToken with a fresh pair. The swap only happens while
// oldToken is still the stored value, so of two concurrent rotations with the
// same token exactly one succeeds; the other gets common.ErrTokenReused.
func (s *TokenService) RotatePair(ctx context.Context, user *models.User, oldToken string) (*TokenPair, error) {
	pair, err := s.mint(user)
	if err != nil {
		return nil, err
	}

	err = s.repomanager.Users(s.db).ReplaceRefreshToken(ctx, user.ID, oldToken, pair.RefreshToken)
	switch {
	case errors.Is(err, dbx.ErrNoRowsAffected):
		return nil, common.NewError(common.ErrTokenReused, "Refresh token is expired or used")
	case err != nil:
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while rotating refresh token", err)
	}
	return pair, nil
}

func (s *TokenService) mint(user *models.User) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(auth.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while generating access token", err)
	}

	refresh, err := s.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while generating refresh token", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
