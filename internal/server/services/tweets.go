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

type TweetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTweetService(db *sql.DB, m repomanager.RepositoryManager) *TweetService {
	return &TweetService{db: db, repomanager: m}
}

func (s *TweetService) CreateTweet(ctx context.Context, userID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Content is required")
	}

	tweet, err := s.repomanager.Tweets(s.db).Create(ctx, &models.Tweet{Content: content, OwnerID: userID})
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while creating tweet", err)
	}
	return tweet, nil
}

func (s *TweetService) ListUserTweets(ctx context.Context, userID string) ([]models.Tweet, error) {
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User does not exist")
		}
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong", err)
	}

	tweets, err := s.repomanager.Tweets(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, common.WrapError(common.ErrorInternal, "Something went wrong while fetching tweets", err)
	}
	return tweets, nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, tweetID, userID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewError(common.ErrorBadRequest, "Content is required")
	}
	if err := s.checkOwner(ctx, tweetID, userID); err != nil {
		return nil, err
	}

	tweet, err := s.repomanager.Tweets(s.db).Update(ctx, tweetID, content)
	if err != nil {
		return nil, tweetLookupError(err)
	}
	return tweet, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, tweetID, userID string) (*models.Tweet, error) {
	if err := s.checkOwner(ctx, tweetID, userID); err != nil {
		return nil, err
	}

	tweet, err := s.repomanager.Tweets(s.db).Delete(ctx, tweetID)
	if err != nil {
		return nil, tweetLookupError(err)
	}
	return tweet, nil
}

func (s *TweetService) checkOwner(ctx context.Context, tweetID, userID string) error {
	tweet, err := s.repomanager.Tweets(s.db).GetByID(ctx, tweetID)
	if err != nil {
		return tweetLookupError(err)
	}
	return ensureOwner(tweet.OwnerID, userID, "tweet")
}

func tweetLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.ErrorNotFound, "Tweet not found")
	}
	return common.WrapError(common.ErrorInternal, "Something went wrong", err)
}
