package api

import (
	"aquactl/internal/models"
	"aquactl/internal/threshold"
	"aquactl/internal/web/middleware"
	webmodels "aquactl/internal/web/models"

	"github.com/gin-gonic/gin"
)

// Allowed slider range for the threshold settings page.
var allowedRanges = gin.H{
	"tempMinAllowed": 20.0,
	"tempMaxAllowed": 32.0,
	"oxyMinAllowed":  5.0,
	"oxyMaxAllowed":  10.0,
}

func RegisterConfigRoutes(r *gin.Engine, mw *middleware.MiddlewareManager, thresholds *threshold.Store) {
	cfg := r.Group("/api/config")
	{
		cfg.GET("/thresholds", func(c *gin.Context) {
			c.JSON(200, thresholds.Current())
		})

		cfg.PUT("/thresholds", mw.RequireAuth(), func(c *gin.Context) {
			var req webmodels.ThresholdRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			t := models.Threshold{
				TempMin: *req.TempMin,
				TempMax: *req.TempMax,
				OxyMin:  *req.OxyMin,
				OxyMax:  *req.OxyMax,
			}
			thresholds.Replace(t)
			c.JSON(200, t)
		})

		cfg.GET("/ranges", func(c *gin.Context) {
			c.JSON(200, allowedRanges)
		})
	}
}
