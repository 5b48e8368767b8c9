package services

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/filex"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/media"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// pageBounds clamps page to >= 1 and limit to [1, maxPageLimit],
// defaulting limit to defaultPageLimit.
func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// ensureOwner rejects callers that do not own the resource.
func ensureOwner(ownerID, userID, resource string) error {
	if ownerID != userID {
		return common.NewError(common.ErrorForbidden, "You are not allowed to modify this "+resource)
	}
	return nil
}

// discardFiles removes staged uploads that were not handed to the media store.
func discardFiles(ctx context.Context, logger logging.Logger, paths ...string) {
	for _, p := range paths {
		if err := filex.Remove(p); err != nil {
			logger.Warn(ctx, "failed to remove temp file", "path", p, "error", err)
		}
	}
}

// forgetObjects deletes uploaded objects that are no longer referenced.
// Failures are logged only.
func forgetObjects(ctx context.Context, store media.Store, logger logging.Logger, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := store.Delete(ctx, u); err != nil {
			logger.Warn(ctx, "failed to delete media object", "url", u, "error", err)
		}
	}
}
