package api

import (
	"strconv"

	"aquactl/internal/db"
	"aquactl/internal/web/middleware"
	webmodels "aquactl/internal/web/models"

	"github.com/gin-gonic/gin"
)

func RegisterDeviceRoutes(r *gin.Engine, mw *middleware.MiddlewareManager, dbConn *db.DB) {
	devices := r.Group("/api/devices")
	devices.Use(mw.RequireAuth())
	{
		devices.GET("", func(c *gin.Context) {
			page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
			size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
			list, err := dbConn.ListDevices(c, c.Query("region"), c.Query("search"), size, page*size)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch devices"})
				return
			}
			c.JSON(200, list)
		})

		devices.GET("/regions", func(c *gin.Context) {
			regions, err := dbConn.DistinctRegions(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch regions"})
				return
			}
			c.JSON(200, regions)
		})

		devices.GET("/:id", func(c *gin.Context) {
			device, err := dbConn.GetDevice(c, c.Param("id"))
			if err != nil {
				c.JSON(404, gin.H{"error": "Device not found"})
				return
			}
			c.JSON(200, device)
		})

		devices.PUT("/:id", func(c *gin.Context) {
			device, err := dbConn.GetDevice(c, c.Param("id"))
			if err != nil {
				c.JSON(404, gin.H{"error": "Device not found"})
				return
			}
			var req webmodels.DeviceUpdateRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			device.Name = req.Name
			device.Region = req.Region
			device.AutoOxygenation = req.AutoOxygenation
			device.ConfigPriority = req.ConfigPriority
			device.TempMin = req.TempMin
			device.TempMax = req.TempMax
			device.OxyMin = req.OxyMin
			device.OxyMax = req.OxyMax
			if err := dbConn.UpdateDevice(c, device); err != nil {
				c.JSON(500, gin.H{"error": "Failed to update device"})
				return
			}
			c.JSON(200, device)
		})

		devices.DELETE("/:id", func(c *gin.Context) {
			if err := dbConn.DeleteDevice(c, c.Param("id")); err != nil {
				c.JSON(500, gin.H{"error": "Failed to delete device"})
				return
			}
			c.Status(204)
		})
	}
}
