package ioserve

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine. CORS stays open; the API serves
// anonymous read queries for browser frontends.
func NewRouter(h *Handles) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	svc := &service{h: h}

	r.GET("/ping", ping)

	api := r.Group("/api")
	{
		api.POST("/score-guild", svc.scoreGuild)
		api.POST("/recommend", svc.recommendPlants)
		api.GET("/pair/:a/:b", svc.pairScore)
		api.GET("/plants/search", svc.searchPlants)
		api.GET("/plant/:id", svc.plantDetails)
	}

	return r
}
