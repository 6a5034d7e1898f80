package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/api/handlers"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/api/middleware"
)

// SetupRoutes wires all endpoints. Route paths are part of the public
// contract; keep them stable.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/analyze", h.Analysis.Analyze)
		api.GET("/analysis/:id", h.Analysis.Get)
		api.POST("/chat", h.Chat.Chat)
		api.POST("/assist", h.Chat.Assist)
	}
}
