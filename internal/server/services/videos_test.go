package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVideoFixture(t *testing.T) (*VideoService, *fakeRepoManager, *fakeStore) {
	t.Helper()
	rm := newFakeRepoManager()
	store := &fakeStore{}
	return NewVideoService(nil, rm, store, nopLogger), rm, store
}

func TestListVideos_Defaults(t *testing.T) {
	svc, rm, _ := newVideoFixture(t)
	rm.v.byID["v1"] = &models.Video{ID: "v1", OwnerID: "u1"}

	page, err := svc.ListVideos(context.Background(), ListVideosInput{Page: -3, Limit: 0, SortBy: "views"})
	require.NoError(t, err)

	assert.Equal(t, models.VideoFilter{SortBy: "createdAt", SortDesc: true, Page: 1, Limit: 10}, rm.v.lastFilter)
	assert.Len(t, page.Videos, 1)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 10, TotalPages: 1, TotalCount: 1}, page.Pagination)
}

func TestListVideos_SortAndFilter(t *testing.T) {
	svc, rm, _ := newVideoFixture(t)

	_, err := svc.ListVideos(context.Background(), ListVideosInput{
		Page: 2, Limit: 500, Query: "  cats ", SortBy: "views", SortType: "ASC", UserID: "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, models.VideoFilter{
		Query: "cats", OwnerID: "u1", SortBy: "views", SortDesc: false, Page: 2, Limit: 100,
	}, rm.v.lastFilter)
}

func TestListVideos_StoreError(t *testing.T) {
	svc, rm, _ := newVideoFixture(t)
	rm.v.listErr = errors.New("boom")

	_, err := svc.ListVideos(context.Background(), ListVideosInput{})
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, rm, store := newVideoFixture(t)
		videoPath, thumbPath := stagedFile(t, "v.mp4"), stagedFile(t, "t.jpg")

		v, err := svc.Publish(ctx, PublishVideoInput{
			OwnerID: "u1", Title: " Cats ", Description: "Funny cats", Duration: 12.5,
			VideoPath: videoPath, ThumbnailPath: thumbPath,
		})
		require.NoError(t, err)
		assert.Equal(t, "Cats", v.Title)
		assert.Equal(t, store.uploaded[0], v.VideoFile)
		assert.Equal(t, store.uploaded[1], v.Thumbnail)
		assert.Contains(t, rm.v.byID, v.ID)
		assert.NoFileExists(t, videoPath)
		assert.NoFileExists(t, thumbPath)
	})

	tests := []struct {
		name string
		in   PublishVideoInput
		msg  string
	}{
		{"no title", PublishVideoInput{Description: "d", VideoPath: "v", ThumbnailPath: "t"}, "Title and description are required"},
		{"no video", PublishVideoInput{Title: "t", Description: "d", ThumbnailPath: "t"}, "Please upload a video"},
		{"no thumbnail", PublishVideoInput{Title: "t", Description: "d", VideoPath: "v"}, "Please upload a thumbnail"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, store := newVideoFixture(t)
			_, err := svc.Publish(ctx, tc.in)
			assert.ErrorIs(t, err, common.ErrorBadRequest)
			assert.Equal(t, tc.msg, common.PublicMessage(err))
			assert.Empty(t, store.uploaded)
		})
	}

	t.Run("upload failure", func(t *testing.T) {
		svc, _, store := newVideoFixture(t)
		store.uploadErr = errors.New("s3 down")
		_, err := svc.Publish(ctx, PublishVideoInput{Title: "t", Description: "d", VideoPath: "v", ThumbnailPath: "t"})
		assert.ErrorIs(t, err, common.ErrorBadRequest)
		assert.Equal(t, "Error uploading video", common.PublicMessage(err))
	})
}

func TestGetVideo_NotFound(t *testing.T) {
	svc, _, _ := newVideoFixture(t)

	_, err := svc.GetVideo(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "Video not found", common.PublicMessage(err))
}

func TestUpdateVideo(t *testing.T) {
	ctx := context.Background()
	svc, rm, store := newVideoFixture(t)
	rm.v.byID["v1"] = &models.Video{ID: "v1", OwnerID: "u1", Title: "old", Description: "desc", Thumbnail: "http://cdn.test/t/old"}

	_, err := svc.UpdateVideo(ctx, UpdateVideoInput{VideoID: "v1", UserID: "u2", Title: "x"})
	assert.ErrorIs(t, err, common.ErrorForbidden)

	v, err := svc.UpdateVideo(ctx, UpdateVideoInput{VideoID: "v1", UserID: "u1", Title: "new", ThumbnailPath: stagedFile(t, "t.png")})
	require.NoError(t, err)
	assert.Equal(t, "new", v.Title)
	assert.Equal(t, "desc", v.Description)
	assert.Equal(t, store.uploaded[0], v.Thumbnail)
	assert.Equal(t, []string{"http://cdn.test/t/old"}, store.deleted)
}

func TestDeleteVideo(t *testing.T) {
	ctx := context.Background()
	svc, rm, store := newVideoFixture(t)
	rm.v.byID["v1"] = &models.Video{ID: "v1", OwnerID: "u1", VideoFile: "http://cdn.test/v", Thumbnail: "http://cdn.test/t"}

	_, err := svc.DeleteVideo(ctx, "v1", "u2")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = svc.DeleteVideo(ctx, "v1", "u1")
	require.NoError(t, err)
	assert.NotContains(t, rm.v.byID, "v1")
	assert.ElementsMatch(t, []string{"http://cdn.test/v", "http://cdn.test/t"}, store.deleted)

	_, err = svc.DeleteVideo(ctx, "v1", "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTogglePublish_ReturnsPreviousFlag(t *testing.T) {
	ctx := context.Background()
	svc, rm, _ := newVideoFixture(t)
	rm.v.byID["v1"] = &models.Video{ID: "v1", OwnerID: "u1", IsPublished: true}

	prev, err := svc.TogglePublish(ctx, "v1", "u1")
	require.NoError(t, err)
	assert.True(t, prev)
	assert.False(t, rm.v.byID["v1"].IsPublished)

	prev, err = svc.TogglePublish(ctx, "v1", "u1")
	require.NoError(t, err)
	assert.False(t, prev)

	_, err = svc.TogglePublish(ctx, "v1", "u2")
	assert.ErrorIs(t, err, common.ErrorForbidden)
}
