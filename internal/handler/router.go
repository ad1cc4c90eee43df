package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the API routes.
func NewRouter(browseHandler *BrowseHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/file", browseHandler.GetCensusView)
		api.GET("/file/:id", browseHandler.Navigate)
		api.GET("/report", browseHandler.GetReport)
		api.GET("/ws", browseHandler.HandleWS)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
