package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/container"
	"github.com/sidhant-sriv/consumeless/models"
	"github.com/sidhant-sriv/consumeless/services"
)

// CategoryRoutes sets up category browsing
func CategoryRoutes(router *gin.Engine, ctr *container.Container) {
	router.GET("/api/categories/:category", GetCategoryItems(ctr.ItemService))
}

// GetCategoryItems lists the items of a category that nobody has booked
func GetCategoryItems(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		found, err := items.AvailableInCategory(c.Request.Context(), c.Param("category"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ItemViews(found))
	}
}
