package web

import (
	"aquactl/auth"
	"aquactl/internal/db"
	"aquactl/internal/threshold"
	"aquactl/internal/web/api"
	"aquactl/internal/web/middleware"

	"github.com/gin-gonic/gin"
)

type WebServer struct {
	router *gin.Engine
}

func NewWebServer(dbConn *db.DB, thresholds *threshold.Store, ing api.Ingestor, disp api.Dispatcher, aud api.CommandAuditor, JWTSecret string) *WebServer {
	router := gin.Default()

	authModule := auth.NewAuthModule(dbConn.Pool(), JWTSecret)
	middlewareManager := middleware.NewMiddlewareManager(authModule)

	api.RegisterAuthRoutes(router, authModule)
	api.RegisterSensorRoutes(router, dbConn, thresholds, ing)
	api.RegisterConfigRoutes(router, middlewareManager, thresholds)
	api.RegisterDeviceRoutes(router, middlewareManager, dbConn)
	api.RegisterRegionRoutes(router, middlewareManager, dbConn)
	api.RegisterControlRoutes(router, middlewareManager, disp, aud)

	return &WebServer{router: router}
}

func (ws *WebServer) Start(addr string) {
	ws.router.Run(addr)
}
