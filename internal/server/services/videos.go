package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/media"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

// ListVideosInput is the raw query of the video listing. Zero values select
// the defaults: page 1, limit 10, newest first.
type ListVideosInput struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

type VideoPage struct {
	Videos     []models.Video    `json:"videos"`
	Pagination models.Pagination `json:"pagination"`
}

type PublishVideoInput struct {
	OwnerID       string
	Title         string
	Description   string
	Duration      float64
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoInput changes title and description; blank values keep the
// current ones. ThumbnailPath is optional.
type UpdateVideoInput struct {
	VideoID       string
	UserID        string
	Title         string
	Description   string
	ThumbnailPath string
}

type VideoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       media.Store
	logger      logging.Logger
}

func NewVideoService(db *sql.DB, m repomanager.RepositoryManager, store media.Store, logger logging.Logger) *VideoService {
	return &VideoService{db: db, repomanager: m, media: store, logger: logger.With("module", "videos")}
}

// ListVideos applies the sort only when both sortBy and sortType are given.
func (s *VideoService) ListVideos(ctx context.Context, in ListVideosInput) (*VideoPage, error) {
	page, limit := pageBounds(in.Page, in.Limit)

	filter := models.VideoFilter{
		Query:    strings.TrimSpace(in.Query),
		OwnerID:  in.UserID,
		SortBy:   "createdAt",
		SortDesc: true,
		Page:     page,
		Limit:    limit,
	}
	if in.SortBy != "" && in.SortType != "" {
		filter.SortBy = in.SortBy
		filter.SortDesc = !strings.EqualFold(in.SortType, "asc")
	}

	videos, total, err := s.repomanager.Videos(s.db).List(ctx, filter)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while fetching videos", err)
	}

	return &VideoPage{Videos: videos, Pagination: models.NewPagination(page, limit, total)}, nil
}

// Publish uploads the video file and its thumbnail, then stores the video.
func (s *VideoService) Publish(ctx context.Context, in PublishVideoInput) (*models.Video, error) {
	defer discardFiles(ctx, s.logger, in.VideoPath, in.ThumbnailPath)

	if common.IsBlank(in.Title, in.Description) {
		return nil, common.NewError(common.ErrorBadRequest, "Title and description are required")
	}
	if in.VideoPath == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Please upload a video")
	}
	if in.ThumbnailPath == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Please upload a thumbnail")
	}
	if in.Duration < 0 {
		return nil, common.NewError(common.ErrorBadRequest, "Duration must not be negative")
	}

	file, err := s.media.Upload(ctx, media.KindVideo, in.VideoPath)
	if err != nil {
		return nil, common.WrapError(common.ErrorBadRequest, "Error uploading video", err)
	}

	thumb, err := s.media.Upload(ctx, media.KindThumbnail, in.ThumbnailPath)
	if err != nil {
		forgetObjects(ctx, s.media, s.logger, file.URL)
		return nil, common.WrapError(common.ErrorBadRequest, "Error uploading thumbnail", err)
	}

	video, err := s.repomanager.Videos(s.db).Create(ctx, &models.Video{
		VideoFile:   file.URL,
		Thumbnail:   thumb.URL,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Duration:    in.Duration,
		OwnerID:     in.OwnerID,
	})
	if err != nil {
		forgetObjects(ctx, s.media, s.logger, file.URL, thumb.URL)
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while publishing video", err)
	}

	s.logger.Info(ctx, "video published", "video_id", video.ID, "owner_id", video.OwnerID)
	return video, nil
}

func (s *VideoService) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	video, err := s.repomanager.Videos(s.db).GetByID(ctx, videoID)
	if err != nil {
		return nil, videoLookupError(err)
	}
	return video, nil
}

func (s *VideoService) UpdateVideo(ctx context.Context, in UpdateVideoInput) (*models.Video, error) {
	defer discardFiles(ctx, s.logger, in.ThumbnailPath)

	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByID(ctx, in.VideoID)
	if err != nil {
		return nil, videoLookupError(err)
	}
	if err := ensureOwner(video.OwnerID, in.UserID, "video"); err != nil {
		return nil, err
	}

	if t := strings.TrimSpace(in.Title); t != "" {
		video.Title = t
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		video.Description = d
	}

	previousThumb := ""
	if in.ThumbnailPath != "" {
		thumb, err := s.media.Upload(ctx, media.KindThumbnail, in.ThumbnailPath)
		if err != nil {
			return nil, common.WrapError(common.ErrorBadRequest, "Error uploading thumbnail", err)
		}
		previousThumb, video.Thumbnail = video.Thumbnail, thumb.URL
	}

	updated, err := repo.Update(ctx, video)
	if err != nil {
		if previousThumb != "" {
			forgetObjects(ctx, s.media, s.logger, video.Thumbnail)
		}
		return nil, videoLookupError(err)
	}

	forgetObjects(ctx, s.media, s.logger, previousThumb)
	return updated, nil
}

// DeleteVideo removes the video row and then its media objects best-effort.
func (s *VideoService) DeleteVideo(ctx context.Context, videoID, userID string) (*models.Video, error) {
	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, videoLookupError(err)
	}
	if err := ensureOwner(video.OwnerID, userID, "video"); err != nil {
		return nil, err
	}

	deleted, err := repo.Delete(ctx, videoID)
	if err != nil {
		return nil, videoLookupError(err)
	}

	forgetObjects(ctx, s.media, s.logger, deleted.VideoFile, deleted.Thumbnail)
	s.logger.Info(ctx, "video deleted", "video_id", videoID)
	return deleted, nil
}

// TogglePublish flips the published flag and returns its previous value.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, userID string) (bool, error) {
	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByID(ctx, videoID)
	if err != nil {
		return false, videoLookupError(err)
	}
	if err := ensureOwner(video.OwnerID, userID, "video"); err != nil {
		return false, err
	}

	previous, err := repo.TogglePublish(ctx, videoID)
	if err != nil {
		return false, videoLookupError(err)
	}
	return previous, nil
}

func videoLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, "Video not found")
	}
	return common.WrapError(common.ErrorInternal, "Something went wrong", err)
}
