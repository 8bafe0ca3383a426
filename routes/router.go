package routes

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sidhant-sriv/consumeless/container"
	"github.com/sidhant-sriv/consumeless/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(ctr *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(cors.New(corsConfig(ctr.CORSAllowOrigins)))
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(ctr.Logger))
	router.Use(middleware.Recovery(ctr.Logger))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/item/index")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	AuthRoutes(router, ctr)
	UserRoutes(router, ctr)
	ItemRoutes(router, ctr)
	CategoryRoutes(router, ctr)
	BookingRoutes(router, ctr)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Location", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
