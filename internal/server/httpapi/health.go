package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) healthcheck(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			s.writeError(c, common.WrapError(common.ErrorInternal, "Database is unavailable", err))
			return
		}
	}
	respond(c, http.StatusOK, "OK", "Health check passed")
}
