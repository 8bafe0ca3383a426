package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/container"
	"github.com/sidhant-sriv/consumeless/middleware"
	"github.com/sidhant-sriv/consumeless/models"
	"github.com/sidhant-sriv/consumeless/services"
)

// ItemRoutes sets up the routes for item-related operations. Browsing is
// public, listing your own items and adding new ones need a token.
func ItemRoutes(router *gin.Engine, ctr *container.Container) {
	router.GET("/api/item/index", GetAllItems(ctr.ItemService))
	router.GET("/api/item/:item_id", GetItem(ctr.ItemService))

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(ctr.Tokens))
	{
		protected.GET("/items", GetMyItems(ctr.ItemService))
		// the path id is ignored; the new item gets the next id
		protected.POST("/item/:item_id", CreateItem(ctr.ItemService))
	}
}

// GetAllItems lists every item in the store
func GetAllItems(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := items.All(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ItemViews(all))
	}
}

// GetMyItems lists the items owned by the authenticated user
func GetMyItems(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owned, err := items.OwnedBy(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ItemViews(owned))
	}
}

// GetItem retrieves an item by ID
func GetItem(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "item_id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}

		item, err := items.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item.View())
	}
}

// CreateItem lists a new item owned by the authenticated user
func CreateItem(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ItemInput
		if err := c.ShouldBind(&in); err != nil {
			badRequest(c, "Invalid input")
			return
		}

		item, err := items.Create(c.Request.Context(), middleware.GetUserID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "successfully added item: " + item.Name,
			"item":    item.View(),
		})
	}
}
