package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/services"
)

// respondError writes err as {"error": msg}. Unclassified errors are attached
// to the context for the request logger and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	}

	var svcErr *services.Error
	if status != http.StatusInternalServerError && errors.As(err, &svcErr) {
		c.JSON(status, gin.H{"error": svcErr.Msg})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID parses a numeric path parameter. ok is false when it is not a
// positive integer.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
