package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/container"
	"github.com/sidhant-sriv/consumeless/services"
)

// AuthRoutes sets up the login route
func AuthRoutes(router *gin.Engine, ctr *container.Container) {
	router.POST("/login", Login(ctr.UserService))
}

// Login handles user login requests.
func Login(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest struct {
			Username string `form:"username" json:"username"`
			Password string `form:"password" json:"password"`
		}
		if err := c.ShouldBind(&loginRequest); err != nil {
			badRequest(c, "Insufficient information")
			return
		}

		user, token, err := users.Login(c.Request.Context(), loginRequest.Username, loginRequest.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "successfully logged in user: " + user.Username,
			"token":   token,
		})
	}
}
