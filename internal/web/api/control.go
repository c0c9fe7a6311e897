package api

import (
	"context"

	"aquactl/internal/control"
	"aquactl/internal/models"
	"aquactl/internal/web/middleware"
	webmodels "aquactl/internal/web/models"

	"github.com/gin-gonic/gin"
)

// Dispatcher publishes a command and reports broker acceptance.
type Dispatcher interface {
	Dispatch(cmd models.ControlCommand) (string, error)
}

// CommandAuditor persists control-log rows for accepted dispatches.
type CommandAuditor interface {
	RecordCommand(ctx context.Context, deviceID, deviceStatus string, triggeringDataID *int64, rawCommand string) error
}

func RegisterControlRoutes(r *gin.Engine, mw *middleware.MiddlewareManager, disp Dispatcher, aud CommandAuditor) {
	ctl := r.Group("/api/control")
	ctl.Use(mw.RequireAuth())
	{
		// Operator-issued command, bypassing threshold evaluation. No
		// triggering reading, so the audit row links to none.
		ctl.POST("/manual", func(c *gin.Context) {
			var req webmodels.ManualControlRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			cmd, err := control.ManualCommand(req.DeviceID, req.DeviceStatus, req.WorkStatus, req.Second)
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			raw, err := disp.Dispatch(cmd)
			if err != nil {
				c.JSON(502, gin.H{"error": "Command not accepted by broker"})
				return
			}
			if err := aud.RecordCommand(c, cmd.DeviceID, cmd.DeviceStatus, nil, raw); err != nil {
				c.JSON(500, gin.H{"error": "Command sent but audit write failed"})
				return
			}
			c.JSON(200, cmd)
		})
	}
}
