package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/comments"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/likes"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/playlists"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/tweets"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/users"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/videos"
)

// RepositoryManager vends repositories bound to a *sql.DB or an open *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Videos(db dbx.DBTX) videos.Repository
	Comments(db dbx.DBTX) comments.Repository
	Likes(db dbx.DBTX) likes.Repository
	Playlists(db dbx.DBTX) playlists.Repository
	Tweets(db dbx.DBTX) tweets.Repository
}
