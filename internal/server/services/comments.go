package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

type CommentPage struct {
	Comments   []models.Comment  `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

func (s *CommentService) ListComments(ctx context.Context, videoID string, page, limit int) (*CommentPage, error) {
	page, limit = pageBounds(page, limit)

	if _, err := s.repomanager.Videos(s.db).GetByID(ctx, videoID); err != nil {
		return nil, videoLookupError(err)
	}

	comments, total, err := s.repomanager.Comments(s.db).ListByVideo(ctx, videoID, limit, (page-1)*limit)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while fetching comments", err)
	}
	return &CommentPage{Comments: comments, Pagination: models.NewPagination(page, limit, total)}, nil
}

func (s *CommentService) AddComment(ctx context.Context, videoID, userID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Content is required")
	}

	comment, err := s.repomanager.Comments(s.db).Create(ctx, &models.Comment{Content: content, VideoID: videoID, OwnerID: userID})
	if err != nil {
		return nil, videoLookupError(err)
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, commentID, userID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Content is required")
	}

	repo := s.repomanager.Comments(s.db)
	if err := s.checkOwner(ctx, commentID, userID); err != nil {
		return nil, err
	}

	updated, err := repo.Update(ctx, commentID, content)
	if err != nil {
		return nil, commentLookupError(err)
	}
	return updated, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	if err := s.checkOwner(ctx, commentID, userID); err != nil {
		return nil, err
	}

	deleted, err := s.repomanager.Comments(s.db).Delete(ctx, commentID)
	if err != nil {
		return nil, commentLookupError(err)
	}
	return deleted, nil
}

func (s *CommentService) checkOwner(ctx context.Context, commentID, userID string) error {
	comment, err := s.repomanager.Comments(s.db).GetByID(ctx, commentID)
	if err != nil {
		return commentLookupError(err)
	}
	return ensureOwner(comment.OwnerID, userID, "comment")
}

func commentLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, "Comment not found")
	}
	return common.WrapError(common.ErrorInternal, "Something went wrong", err)
}
