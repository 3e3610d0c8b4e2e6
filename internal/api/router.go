// Package api assembles the HTTP surface: routes, middleware and static
// serving of stored thumbnails.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"server-deck/internal/api/handler"
	"server-deck/internal/api/middleware"
	"server-deck/internal/service"
)

// NewRouter wires the server routes onto a gin engine.
func NewRouter(svc *service.ServerService, storageDir string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware())
	router.MaxMultipartMemory = 8 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Stored thumbnails resolve under the same prefix the API reports in
	// image_url.
	router.Static("/storage", storageDir)

	h := handler.NewServerHandler(svc)
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/servers", h.List)
		apiGroup.POST("/servers", h.Create)
		apiGroup.POST("/servers/update-order", h.UpdateOrder)
		apiGroup.GET("/servers/:id", h.Get)
		apiGroup.PUT("/servers/:id", h.Update)
		apiGroup.DELETE("/servers/:id", h.Delete)
	}

	return router
}
