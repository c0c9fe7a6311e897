package api

import (
	"aquactl/internal/db"
	"aquactl/internal/models"
	"aquactl/internal/web/middleware"
	webmodels "aquactl/internal/web/models"

	"github.com/gin-gonic/gin"
)

func RegisterRegionRoutes(r *gin.Engine, mw *middleware.MiddlewareManager, dbConn *db.DB) {
	regions := r.Group("/api/regions")
	regions.Use(mw.RequireAuth())
	{
		regions.GET("", func(c *gin.Context) {
			configs, err := dbConn.ListRegionThresholds(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch region configs"})
				return
			}
			c.JSON(200, configs)
		})

		regions.PUT("", func(c *gin.Context) {
			var req webmodels.RegionRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			cfg := models.RegionThreshold{
				Region:  req.Region,
				TempMin: req.TempMin,
				TempMax: req.TempMax,
				OxyMin:  req.OxyMin,
				OxyMax:  req.OxyMax,
			}
			if err := dbConn.UpsertRegionThreshold(c, &cfg); err != nil {
				c.JSON(500, gin.H{"error": "Failed to save region config"})
				return
			}
			c.JSON(200, cfg)
		})

		regions.DELETE("/:region", func(c *gin.Context) {
			if err := dbConn.DeleteRegionThreshold(c, c.Param("region")); err != nil {
				c.JSON(500, gin.H{"error": "Failed to delete region config"})
				return
			}
			c.Status(204)
		})
	}
}
