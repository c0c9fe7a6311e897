package api

import (
	"context"
	"io"
	"strconv"
	"time"

	"aquactl/internal/db"
	"aquactl/internal/models"
	"aquactl/internal/threshold"

	"github.com/gin-gonic/gin"
)

// Ingestor is the pipeline entry point shared with the MQTT path.
type Ingestor interface {
	Process(ctx context.Context, raw string) error
	Recent(deviceID string) []models.SensorReading
}

// deviceSummary carries the latest values and in-range flags for a device card.
type deviceSummary struct {
	DeviceID    string     `json:"device_id"`
	Temperature *float64   `json:"temperature"`
	Oxygen      *float64   `json:"oxygen"`
	TempInRange bool       `json:"temp_in_range"`
	OxyInRange  bool       `json:"oxy_in_range"`
	ReceivedAt  *time.Time `json:"received_at"`
}

func RegisterSensorRoutes(r *gin.Engine, dbConn *db.DB, thresholds *threshold.Store, ing Ingestor) {
	sensors := r.Group("/api/sensors")
	{
		// Raw JSON in, identical processing to the subscribed MQTT path.
		// Devices do not authenticate with JWTs, so this stays open.
		sensors.POST("/ingest", func(c *gin.Context) {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(400, gin.H{"error": "Failed to read body"})
				return
			}
			if err := ing.Process(c, string(body)); err != nil {
				c.JSON(500, gin.H{"error": "Failed to process payload"})
				return
			}
			c.Status(202)
		})

		sensors.GET("/latest", func(c *gin.Context) {
			deviceID := c.Query("deviceId")
			latest, err := dbConn.LatestSensorData(c, deviceID)
			if err != nil {
				c.JSON(404, gin.H{"error": "No data for device"})
				return
			}
			c.JSON(200, latest)
		})

		sensors.GET("/history", func(c *gin.Context) {
			deviceID := c.Query("deviceId")
			from, to, ok := parseWindow(c)
			if !ok {
				return
			}
			page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
			size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
			logs, err := dbConn.SensorDataHistory(c, deviceID, from, to, size, page*size)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch history"})
				return
			}
			c.JSON(200, logs)
		})

		sensors.GET("/series", func(c *gin.Context) {
			deviceID := c.Query("deviceId")
			from, to, ok := parseWindow(c)
			if !ok {
				return
			}
			logs, err := dbConn.SensorDataSeries(c, deviceID, from, to)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch series"})
				return
			}
			type point struct {
				Time        time.Time `json:"time"`
				Temperature *float64  `json:"temperature"`
				Oxygen      *float64  `json:"oxygen"`
			}
			points := make([]point, 0, len(logs))
			for _, l := range logs {
				points = append(points, point{Time: l.ReceivedAt, Temperature: l.Temperature, Oxygen: l.OxygenConcentration})
			}
			c.JSON(200, points)
		})

		sensors.GET("/summary", func(c *gin.Context) {
			deviceID := c.Query("deviceId")
			s := deviceSummary{DeviceID: deviceID}
			if latest, err := dbConn.LatestSensorData(c, deviceID); err == nil {
				t := thresholds.Current()
				s.Temperature = latest.Temperature
				s.Oxygen = latest.OxygenConcentration
				s.ReceivedAt = &latest.ReceivedAt
				s.TempInRange = latest.Temperature != nil && *latest.Temperature >= t.TempMin && *latest.Temperature <= t.TempMax
				s.OxyInRange = latest.OxygenConcentration != nil && *latest.OxygenConcentration >= t.OxyMin && *latest.OxygenConcentration <= t.OxyMax
			}
			c.JSON(200, s)
		})

		sensors.GET("/devices", func(c *gin.Context) {
			ids, err := dbConn.DistinctDeviceIDs(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch device ids"})
				return
			}
			c.JSON(200, ids)
		})

		sensors.GET("/recent", func(c *gin.Context) {
			c.JSON(200, ing.Recent(c.Query("deviceId")))
		})
	}
}

func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid from timestamp"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid to timestamp"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
