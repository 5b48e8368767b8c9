package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/cryptox"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/media"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

// LoginInput identifies the account by username or email (at least one).
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is the sanitized user plus the freshly issued pair.
type LoginResult struct {
	User   models.User
	Tokens TokenPair
}

// RegisterInput carries the profile fields and the staged upload paths.
// AvatarPath is required, CoverImagePath is optional.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// UserService handles registration, the session lifecycle
// (login, logout, refresh) and profile mutations.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	issuer      *auth.TokenIssuer
	media       media.Store
	hashParams  cryptox.Params
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.TokenIssuer, store media.Store, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      NewTokenService(db, m, issuer),
		issuer:      issuer,
		media:       store,
		hashParams:  cryptox.DefaultParams,
		logger:      logger.With("module", "users"),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Login verifies credentials and starts a new session. The identifier check
// happens before any store access.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username, email := normalize(in.Username), normalize(in.Email)
	if username == "" && email == "" {
		return nil, common.NewError(common.ErrorBadRequest, "username or email is required")
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User does not exist")
		}
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while logging in", err)
	}

	ok, err := cryptox.VerifyPassword(in.Password, user.Password)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while logging in", err)
	}
	if !ok {
		return nil, common.NewError(common.ErrorUnauthorized, "Invalid user credentials")
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	loggedIn, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while logging in", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{User: loggedIn.Sanitized(), Tokens: *pair}, nil
}

// Logout clears the stored refresh token so the session cannot be refreshed.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.db).SetRefreshToken(ctx, userID, ""); err != nil {
		return common.WrapError(common.ErrorInternal, "Something went wrong while logging out", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// RefreshSession exchanges a refresh token for a new pair. Every failure
// past the presence check is reported as unauthorized.
func (s *UserService) RefreshSession(ctx context.Context, incoming string) (*TokenPair, error) {
	if strings.TrimSpace(incoming) == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Refresh token is required")
	}

	pair, err := s.refresh(ctx, incoming)
	if err != nil {
		return nil, asUnauthorized(err)
	}
	return pair, nil
}

func (s *UserService) refresh(ctx context.Context, incoming string) (*TokenPair, error) {
	claims, err := s.issuer.VerifyRefreshToken(incoming)
	if err != nil {
		return nil, common.WrapError(common.ErrInvalidToken, "Invalid refresh token", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrInvalidToken, "Invalid refresh token")
		}
		return nil, err
	}

	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(incoming), []byte(user.RefreshToken)) != 1 {
		s.logger.Warn(ctx, "refresh token reuse detected", "user_id", user.ID)
		return nil, common.NewError(common.ErrTokenReused, "Refresh token is expired or used")
	}

	return s.tokens.RotatePair(ctx, user, incoming)
}

// asUnauthorized keeps unauthorized errors as they are and re-classifies
// anything else, preserving its message.
func asUnauthorized(err error) error {
	if errors.Is(err, common.ErrorUnauthorized) {
		return err
	}
	msg := common.PublicMessage(err)
	if msg == "" {
		msg = err.Error()
	}
	return common.WrapError(common.ErrorUnauthorized, msg, err)
}

// Register creates an account. Staged uploads are always removed from disk.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	defer discardFiles(ctx, s.logger, in.AvatarPath, in.CoverImagePath)

	if common.IsBlank(in.FullName, in.Email, in.Username, in.Password) {
		return nil, common.NewError(common.ErrorBadRequest, "Please fill all the fields")
	}

	username, email := normalize(in.Username), normalize(in.Email)
	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Failed to create user", err)
	}
	if exists {
		return nil, common.NewError(common.ErrorConflict, "User already exists")
	}

	if in.AvatarPath == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Please upload an avatar image")
	}

	avatar, err := s.media.Upload(ctx, media.KindAvatar, in.AvatarPath)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Failed to upload images", err)
	}

	var coverURL string
	if in.CoverImagePath != "" {
		cover, err := s.media.Upload(ctx, media.KindCoverImage, in.CoverImagePath)
		if err != nil {
			forgetObjects(ctx, s.media, s.logger, avatar.URL)
			return nil, common.WrapError(common.ErrorInternal, "Failed to upload images", err)
		}
		coverURL = cover.URL
	}

	hash, err := cryptox.HashPassword(in.Password, s.hashParams)
	if err != nil {
		forgetObjects(ctx, s.media, s.logger, avatar.URL, coverURL)
		return nil, common.WrapError(common.ErrorInternal, "Failed to create user", err)
	}

	created, err := repo.Create(ctx, &models.User{
		Username:   username,
		Email:      email,
		FullName:   strings.TrimSpace(in.FullName),
		Avatar:     avatar.URL,
		CoverImage: coverURL,
		Password:   hash,
	})
	if err != nil {
		forgetObjects(ctx, s.media, s.logger, avatar.URL, coverURL)
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.NewError(common.ErrorConflict, "User already exists")
		}
		return nil, common.WrapError(common.ErrorInternal, "Failed to create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID, "username", created.Username)
	u := created.Sanitized()
	return &u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return common.NewError(common.ErrorBadRequest, "Old and new password are required")
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return s.userLookupError(err)
	}

	ok, err := cryptox.VerifyPassword(oldPassword, user.Password)
	if err != nil {
		return common.WrapError(common.ErrorInternal, "Something went wrong while changing password", err)
	}
	if !ok {
		return common.NewError(common.ErrorBadRequest, "Invalid old password")
	}

	hash, err := cryptox.HashPassword(newPassword, s.hashParams)
	if err != nil {
		return common.WrapError(common.ErrorInternal, "Something went wrong while changing password", err)
	}

	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return common.WrapError(common.ErrorInternal, "Something went wrong while changing password", err)
	}
	return nil
}

func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, s.userLookupError(err)
	}
	u := user.Sanitized()
	return &u, nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	if common.IsBlank(fullName, email) {
		return nil, common.NewError(common.ErrorBadRequest, "All fields are required")
	}

	user, err := s.repomanager.Users(s.db).UpdateAccount(ctx, userID, strings.TrimSpace(fullName), normalize(email))
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.NewError(common.ErrorConflict, "Email is already in use")
		}
		return nil, s.userLookupError(err)
	}
	u := user.Sanitized()
	return &u, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	return s.replaceImage(ctx, userID, localPath, media.KindAvatar)
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	return s.replaceImage(ctx, userID, localPath, media.KindCoverImage)
}

// replaceImage uploads the new image, points the user at it and then
// deletes the previous object best-effort.
func (s *UserService) replaceImage(ctx context.Context, userID, localPath string, kind media.Kind) (*models.User, error) {
	defer discardFiles(ctx, s.logger, localPath)

	label := "Avatar"
	if kind == media.KindCoverImage {
		label = "Cover image"
	}
	if localPath == "" {
		return nil, common.NewError(common.ErrorBadRequest, label+" file is missing")
	}

	repo := s.repomanager.Users(s.db)

	current, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.userLookupError(err)
	}

	obj, err := s.media.Upload(ctx, kind, localPath)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Error while uploading "+strings.ToLower(label), err)
	}

	var (
		updated  *models.User
		previous string
	)
	if kind == media.KindAvatar {
		previous = current.Avatar
		updated, err = repo.UpdateAvatar(ctx, userID, obj.URL)
	} else {
		previous = current.CoverImage
		updated, err = repo.UpdateCoverImage(ctx, userID, obj.URL)
	}
	if err != nil {
		forgetObjects(ctx, s.media, s.logger, obj.URL)
		return nil, s.userLookupError(err)
	}

	forgetObjects(ctx, s.media, s.logger, previous)

	u := updated.Sanitized()
	return &u, nil
}

// Authenticate resolves an access token to the sanitized user it was issued for.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, common.NewError(common.ErrorUnauthorized, "Unauthorized request")
	}

	claims, err := s.issuer.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, common.WrapError(common.ErrInvalidToken, "Invalid access token", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrInvalidToken, "Invalid access token")
		}
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while authenticating", err)
	}

	u := user.Sanitized()
	return &u, nil
}

func (s *UserService) userLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, "User does not exist")
	}
	return common.WrapError(common.ErrorInternal, "Something went wrong", err)
}
