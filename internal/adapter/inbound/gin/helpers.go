package gin

import (
	"github.com/carzone/server/internal/model"
	apperrors "github.com/carzone/server/internal/utils/errors"
	"github.com/carzone/server/internal/utils/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requireActor returns the authenticated caller, or writes a 401 and
// returns false.
func requireActor(c *gin.Context) (model.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		appErr := apperrors.Unauthorized("")
		c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
		return model.Actor{}, false
	}
	return actor, true
}

// requireUserID is requireActor for handlers that only need the ID.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	actor, ok := requireActor(c)
	return actor.UserID, ok
}

// parseUUIDParam parses a path parameter, writing a 400 when it is malformed.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		appErr := apperrors.ValidationError("invalid " + name)
		c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
		return uuid.Nil, false
	}
	return id, true
}
