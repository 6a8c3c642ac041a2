// controllers/respond.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondServiceError maps the service-level error taxonomy onto transport
// statuses. Anything outside the taxonomy is an internal error and its
// detail stays out of the response.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPreconditionFailed):
		utils.RespondWithError(c, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// currentEmployeeID reads the verified caller identity stamped by the auth
// middleware.
func currentEmployeeID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("employeeId")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
