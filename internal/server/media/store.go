// Package media stores uploaded files (avatars, cover images, videos and
// thumbnails) in an S3-compatible bucket and hands out their public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind selects the key prefix of an uploaded object.
type Kind string

const (
	KindAvatar     Kind = "avatars"
	KindCoverImage Kind = "covers"
	KindVideo      Kind = "videos"
	KindThumbnail  Kind = "thumbnails"
)

// ErrForeignURL is returned by Delete for URLs that do not point into the bucket.
var ErrForeignURL = errors.New("url does not belong to the media store")

// Object is an uploaded file.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Store uploads local files and deletes previously uploaded objects.
// Upload always removes the local file, whether or not it succeeds.
type Store interface {
	Upload(ctx context.Context, kind Kind, localPath string) (*Object, error)
	Delete(ctx context.Context, url string) error
}

// ObjectKey builds "<kind>/<yyyy>/<mm>/<dd>/<uuid><ext>" with a lower-cased
// extension taken from name.
func ObjectKey(kind Kind, now time.Time, name string) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s",
		kind, now.Year(), int(now.Month()), now.Day(), uuid.New(), strings.ToLower(filepath.Ext(name)))
}
