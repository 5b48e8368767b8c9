package httpapi

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
)

// The handlers depend on these narrow views of the services package so
// they can be exercised with fakes.

type UserService interface {
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	RefreshSession(ctx context.Context, incoming string) (*services.TokenPair, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetCurrentUser(ctx context.Context, userID string) (*models.User, error)
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type VideoService interface {
	ListVideos(ctx context.Context, in services.ListVideosInput) (*services.VideoPage, error)
	Publish(ctx context.Context, in services.PublishVideoInput) (*models.Video, error)
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	UpdateVideo(ctx context.Context, in services.UpdateVideoInput) (*models.Video, error)
	DeleteVideo(ctx context.Context, videoID, userID string) (*models.Video, error)
	TogglePublish(ctx context.Context, videoID, userID string) (bool, error)
}

type CommentService interface {
	ListComments(ctx context.Context, videoID string, page, limit int) (*services.CommentPage, error)
	AddComment(ctx context.Context, videoID, userID, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, commentID, userID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID string) (*models.Comment, error)
}

type LikeService interface {
	Toggle(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]models.Video, error)
}

type PlaylistService interface {
	CreatePlaylist(ctx context.Context, userID, name, description string) (*models.Playlist, error)
	ListUserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlistID, userID, name, description string) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID, userID string) (*models.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID, userID string) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, userID string) (*models.Playlist, error)
}

type TweetService interface {
	CreateTweet(ctx context.Context, userID, content string) (*models.Tweet, error)
	ListUserTweets(ctx context.Context, userID string) ([]models.Tweet, error)
	UpdateTweet(ctx context.Context, tweetID, userID, content string) (*models.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID, userID string) (*models.Tweet, error)
}

// Pinger reports database liveness for the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	_ UserService     = (*services.UserService)(nil)
	_ VideoService    = (*services.VideoService)(nil)
	_ CommentService  = (*services.CommentService)(nil)
	_ LikeService     = (*services.LikeService)(nil)
	_ PlaylistService = (*services.PlaylistService)(nil)
	_ TweetService    = (*services.TweetService)(nil)
)
