package httpapi

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
)

var errNotStubbed = errors.New("not stubbed")

type fakeUserService struct {
	loginFn        func(context.Context, services.LoginInput) (*services.LoginResult, error)
	logoutFn       func(context.Context, string) error
	refreshFn      func(context.Context, string) (*services.TokenPair, error)
	registerFn     func(context.Context, services.RegisterInput) (*models.User, error)
	updateAvatarFn func(context.Context, string, string) (*models.User, error)

	// tokens maps access tokens to users for Authenticate
	tokens map[string]*models.User
}

func (f *fakeUserService) Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error) {
	if f.loginFn == nil {
		return nil, errNotStubbed
	}
	return f.loginFn(ctx, in)
}

func (f *fakeUserService) Logout(ctx context.Context, userID string) error {
	if f.logoutFn == nil {
		return errNotStubbed
	}
	return f.logoutFn(ctx, userID)
}

func (f *fakeUserService) RefreshSession(ctx context.Context, incoming string) (*services.TokenPair, error) {
	if f.refreshFn == nil {
		return nil, errNotStubbed
	}
	return f.refreshFn(ctx, incoming)
}

func (f *fakeUserService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	if f.registerFn == nil {
		return nil, errNotStubbed
	}
	return f.registerFn(ctx, in)
}

func (f *fakeUserService) ChangePassword(context.Context, string, string, string) error {
	return nil
}

func (f *fakeUserService) GetCurrentUser(_ context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, Username: "alice"}, nil
}

func (f *fakeUserService) UpdateAccount(_ context.Context, userID, fullName, email string) (*models.User, error) {
	return &models.User{ID: userID, FullName: fullName, Email: email}, nil
}

func (f *fakeUserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	if f.updateAvatarFn == nil {
		return nil, errNotStubbed
	}
	return f.updateAvatarFn(ctx, userID, localPath)
}

func (f *fakeUserService) UpdateCoverImage(context.Context, string, string) (*models.User, error) {
	return nil, errNotStubbed
}

func (f *fakeUserService) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return nil, common.NewError(common.ErrInvalidToken, "Invalid access token")
}

type fakeVideoService struct {
	getFn    func(context.Context, string) (*models.Video, error)
	toggleFn func(context.Context, string, string) (bool, error)
	listIn   services.ListVideosInput
}

func (f *fakeVideoService) ListVideos(_ context.Context, in services.ListVideosInput) (*services.VideoPage, error) {
	f.listIn = in
	return &services.VideoPage{Videos: []models.Video{}, Pagination: models.NewPagination(1, 10, 0)}, nil
}

func (f *fakeVideoService) Publish(context.Context, services.PublishVideoInput) (*models.Video, error) {
	return nil, errNotStubbed
}

func (f *fakeVideoService) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	return f.getFn(ctx, id)
}

func (f *fakeVideoService) UpdateVideo(context.Context, services.UpdateVideoInput) (*models.Video, error) {
	return nil, errNotStubbed
}

func (f *fakeVideoService) DeleteVideo(context.Context, string, string) (*models.Video, error) {
	return nil, errNotStubbed
}

func (f *fakeVideoService) TogglePublish(ctx context.Context, videoID, userID string) (bool, error) {
	return f.toggleFn(ctx, videoID, userID)
}

type fakeLikeService struct {
	target models.LikeTarget
	id     string
}

func (f *fakeLikeService) Toggle(_ context.Context, target models.LikeTarget, targetID, _ string) (bool, error) {
	f.target, f.id = target, targetID
	return true, nil
}

func (f *fakeLikeService) LikedVideos(context.Context, string) ([]models.Video, error) {
	return []models.Video{}, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
