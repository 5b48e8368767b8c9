package httpapi

import (
	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID reads a uuid path parameter. Malformed ids are a 400.
func pathID(c *gin.Context, name string) (string, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", common.WrapError(common.ErrorBadRequest, "Invalid "+name, err)
	}
	return id.String(), nil
}
