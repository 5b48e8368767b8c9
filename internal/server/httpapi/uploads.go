package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/filex"
	"github.com/gin-gonic/gin"
)

// stageUploads saves the named multipart files into the upload directory
// and returns their paths by field. Missing fields are left out. On error
// every file staged so far is removed.
func (s *Server) stageUploads(c *gin.Context, fields ...string) (map[string]string, error) {
	staged := make(map[string]string, len(fields))

	fail := func(err error) (map[string]string, error) {
		for _, p := range staged {
			_ = filex.Remove(p)
		}
		return nil, err
	}

	for _, field := range fields {
		fh, err := c.FormFile(field)
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			continue
		case err != nil:
			if isTooLarge(err) {
				return fail(common.WrapError(common.ErrorBadRequest, "Upload is too large", err))
			}
			return fail(common.WrapError(common.ErrorBadRequest, "Invalid multipart form", err))
		}

		path := filex.TempPath(s.uploadDir, fh.Filename)
		if err := c.SaveUploadedFile(fh, path); err != nil {
			return fail(common.WrapError(common.ErrorInternal, "Failed to store upload", err))
		}
		staged[field] = path
	}
	return staged, nil
}
