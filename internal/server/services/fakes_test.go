package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/cryptox"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/media"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/comments"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/likes"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/playlists"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/tweets"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/users"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/videos"
)

// --- helpers ---

var cheapParams = cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestIssuer(refreshTTL time.Duration) *auth.TokenIssuer {
	return auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		AccessTTL:     time.Minute,
		RefreshSecret: []byte("refresh-secret"),
		RefreshTTL:    refreshTTL,
	})
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := cryptox.HashPassword(password, cheapParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

var seq atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, seq.Add(1))
}

// --- users ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	calls int

	getErr     error
	setErr     error
	replaceErr error
}

func newFakeUsersRepo(us ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range us {
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	c := *u
	c.ID = nextID("user")
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUsersRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.byID {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	_, err := r.FindByUsernameOrEmail(ctx, username, email)
	return err == nil, nil
}

func (r *fakeUsersRepo) SetRefreshToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.setErr != nil {
		return r.setErr
	}
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *fakeUsersRepo) ReplaceRefreshToken(_ context.Context, id, oldToken, newToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.replaceErr != nil {
		return r.replaceErr
	}
	u, ok := r.byID[id]
	if !ok || u.RefreshToken != oldToken {
		return dbx.ErrNoRowsAffected
	}
	u.RefreshToken = newToken
	return nil
}

func (r *fakeUsersRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Password = hash
	return nil
}

func (r *fakeUsersRepo) update(id string, fn func(u *models.User)) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	fn(u)
	c := *u
	return &c, nil
}

func (r *fakeUsersRepo) UpdateAccount(_ context.Context, id, fullName, email string) (*models.User, error) {
	return r.update(id, func(u *models.User) { u.FullName, u.Email = fullName, email })
}

func (r *fakeUsersRepo) UpdateAvatar(_ context.Context, id, url string) (*models.User, error) {
	return r.update(id, func(u *models.User) { u.Avatar = url })
}

func (r *fakeUsersRepo) UpdateCoverImage(_ context.Context, id, url string) (*models.User, error) {
	return r.update(id, func(u *models.User) { u.CoverImage = url })
}

func (r *fakeUsersRepo) stored(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].RefreshToken
}

// --- videos ---

type fakeVideosRepo struct {
	byID       map[string]*models.Video
	lastFilter models.VideoFilter
	listErr    error
}

func newFakeVideosRepo(vs ...*models.Video) *fakeVideosRepo {
	r := &fakeVideosRepo{byID: map[string]*models.Video{}}
	for _, v := range vs {
		r.byID[v.ID] = v
	}
	return r
}

func (r *fakeVideosRepo) Create(_ context.Context, v *models.Video) (*models.Video, error) {
	c := *v
	c.ID = nextID("video")
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeVideosRepo) GetByID(_ context.Context, id string) (*models.Video, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *v
	return &c, nil
}

func (r *fakeVideosRepo) List(_ context.Context, f models.VideoFilter) ([]models.Video, int64, error) {
	r.lastFilter = f
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	out := make([]models.Video, 0, len(r.byID))
	for _, v := range r.byID {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeVideosRepo) Update(_ context.Context, v *models.Video) (*models.Video, error) {
	if _, ok := r.byID[v.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *v
	r.byID[v.ID] = &c
	out := c
	return &out, nil
}

func (r *fakeVideosRepo) Delete(_ context.Context, id string) (*models.Video, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.byID, id)
	return v, nil
}

func (r *fakeVideosRepo) TogglePublish(_ context.Context, id string) (bool, error) {
	v, ok := r.byID[id]
	if !ok {
		return false, common.ErrorNotFound
	}
	prev := v.IsPublished
	v.IsPublished = !prev
	return prev, nil
}

// --- comments ---

type fakeCommentsRepo struct {
	byID map[string]*models.Comment
}

func (r *fakeCommentsRepo) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	n := *c
	n.ID = nextID("comment")
	r.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (r *fakeCommentsRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r *fakeCommentsRepo) ListByVideo(_ context.Context, videoID string, limit, offset int) ([]models.Comment, int64, error) {
	var all []models.Comment
	for _, c := range r.byID {
		if c.VideoID == videoID {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []models.Comment{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r *fakeCommentsRepo) Update(_ context.Context, id, content string) (*models.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.Content = content
	out := *c
	return &out, nil
}

func (r *fakeCommentsRepo) Delete(_ context.Context, id string) (*models.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.byID, id)
	return c, nil
}

// --- tweets ---

type fakeTweetsRepo struct {
	byID map[string]*models.Tweet
}

func (r *fakeTweetsRepo) Create(_ context.Context, t *models.Tweet) (*models.Tweet, error) {
	n := *t
	n.ID = nextID("tweet")
	r.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (r *fakeTweetsRepo) GetByID(_ context.Context, id string) (*models.Tweet, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *t
	return &out, nil
}

func (r *fakeTweetsRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Tweet, error) {
	out := []models.Tweet{}
	for _, t := range r.byID {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTweetsRepo) Update(_ context.Context, id, content string) (*models.Tweet, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Content = content
	out := *t
	return &out, nil
}

func (r *fakeTweetsRepo) Delete(_ context.Context, id string) (*models.Tweet, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.byID, id)
	return t, nil
}

// --- likes ---

type fakeLikesRepo struct {
	likes     map[string]*models.Like
	createErr error
	liked     []models.Video
}

func (r *fakeLikesRepo) Find(_ context.Context, target models.LikeTarget, targetID, userID string) (*models.Like, error) {
	for _, l := range r.likes {
		if l.Target == target && l.TargetID == targetID && l.LikedBy == userID {
			out := *l
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeLikesRepo) Create(_ context.Context, target models.LikeTarget, targetID, userID string) (*models.Like, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	l := &models.Like{ID: nextID("like"), Target: target, TargetID: targetID, LikedBy: userID}
	r.likes[l.ID] = l
	out := *l
	return &out, nil
}

func (r *fakeLikesRepo) Delete(_ context.Context, id string) error {
	delete(r.likes, id)
	return nil
}

func (r *fakeLikesRepo) ListLikedVideos(context.Context, string) ([]models.Video, error) {
	return r.liked, nil
}

// --- playlists ---

type fakePlaylistsRepo struct {
	byID   map[string]*models.Playlist
	videos map[string][]string
	vids   *fakeVideosRepo
}

func (r *fakePlaylistsRepo) Create(_ context.Context, p *models.Playlist) (*models.Playlist, error) {
	n := *p
	n.ID = nextID("playlist")
	r.byID[n.ID] = &n
	out := n
	return &out, nil
}

func (r *fakePlaylistsRepo) GetByID(_ context.Context, id string) (*models.Playlist, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *p
	return &out, nil
}

func (r *fakePlaylistsRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Playlist, error) {
	out := []models.Playlist{}
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlaylistsRepo) ListVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	out := []models.Video{}
	for _, id := range r.videos[playlistID] {
		v, err := r.vids.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakePlaylistsRepo) Update(_ context.Context, id, name, description string) (*models.Playlist, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Name, p.Description = name, description
	out := *p
	return &out, nil
}

func (r *fakePlaylistsRepo) Delete(_ context.Context, id string) (*models.Playlist, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.byID, id)
	return p, nil
}

func (r *fakePlaylistsRepo) AddVideo(_ context.Context, playlistID, videoID string) error {
	for _, id := range r.videos[playlistID] {
		if id == videoID {
			return nil
		}
	}
	r.videos[playlistID] = append(r.videos[playlistID], videoID)
	return nil
}

func (r *fakePlaylistsRepo) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	ids := r.videos[playlistID]
	for i, id := range ids {
		if id == videoID {
			r.videos[playlistID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	v *fakeVideosRepo
	c *fakeCommentsRepo
	l *fakeLikesRepo
	p *fakePlaylistsRepo
	t *fakeTweetsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	v := newFakeVideosRepo()
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		v: v,
		c: &fakeCommentsRepo{byID: map[string]*models.Comment{}},
		l: &fakeLikesRepo{likes: map[string]*models.Like{}},
		p: &fakePlaylistsRepo{byID: map[string]*models.Playlist{}, videos: map[string][]string{}, vids: v},
		t: &fakeTweetsRepo{byID: map[string]*models.Tweet{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Videos(dbx.DBTX) videos.Repository            { return m.v }
func (m *fakeRepoManager) Comments(dbx.DBTX) comments.Repository        { return m.c }
func (m *fakeRepoManager) Likes(dbx.DBTX) likes.Repository              { return m.l }
func (m *fakeRepoManager) Playlists(dbx.DBTX) playlists.Repository      { return m.p }
func (m *fakeRepoManager) Tweets(dbx.DBTX) tweets.Repository            { return m.t }

// --- media ---

type fakeStore struct {
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (s *fakeStore) Upload(_ context.Context, kind media.Kind, localPath string) (*media.Object, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	url := "http://cdn.test/" + string(kind) + "/" + nextID("obj")
	s.uploaded = append(s.uploaded, url)
	return &media.Object{Key: url, URL: url}, nil
}

func (s *fakeStore) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

var nopLogger logging.Logger = logging.Nop{}
