package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/container"
	"github.com/sidhant-sriv/consumeless/services"
)

func UserRoutes(router *gin.Engine, ctr *container.Container) {
	router.GET("/api/user/:user_id", GetUser(ctr.UserService))
	// the path id is ignored; registration is public
	router.POST("/api/user/:user_id", CreateUser(ctr.UserService))
}

// GetUser returns the public fields of a user.
func GetUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "user_id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		user, err := users.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user.View())
	}
}

// CreateUser registers a user and returns a token for them.
func CreateUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterInput
		if err := c.ShouldBind(&in); err != nil {
			badRequest(c, "Invalid input")
			return
		}

		user, token, err := users.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "successfully added user: " + user.Username,
			"token":   token,
			"user":    user.View(),
		})
	}
}
