package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aquactl/internal/audit"
	"aquactl/internal/config"
	"aquactl/internal/control"
	"aquactl/internal/db"
	"aquactl/internal/ingest"
	"aquactl/internal/models"
	"aquactl/internal/mqtt"
	"aquactl/internal/redis"
	"aquactl/internal/registry"
	"aquactl/internal/scheduler"
	"aquactl/internal/threshold"
	"aquactl/internal/web"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConn, err := db.NewDB(cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbConn.Close(context.Background())

	redisClient := redis.NewRedisClient(cfg.RedisAddr)

	mqttClient, err := mqtt.NewMQTTClient(mqtt.Options{
		Broker:       cfg.MQTTBroker,
		ClientID:     cfg.MQTTClientID,
		Username:     cfg.MQTTUsername,
		Password:     cfg.MQTTPassword,
		KeepAlive:    cfg.MQTTKeepAlive,
		CleanSession: cfg.MQTTCleanSession,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MQTT: %v", err)
	}

	// Global default threshold, replaced only through the config API.
	thresholds := threshold.NewStore(models.Threshold{
		TempMin: cfg.TempMin,
		TempMax: cfg.TempMax,
		OxyMin:  cfg.OxyMin,
		OxyMax:  cfg.OxyMax,
	})
	resolver := threshold.NewResolver(thresholds, dbConn)

	reg := registry.NewRegistry(dbConn)
	auditor := audit.NewWriter(dbConn)
	dispatcher := control.NewDispatcher(mqttClient, cfg.PublishTopic, cfg.MQTTQoS, cfg.AlarmRetain, cfg.DispatchTimeout)

	orch := ingest.NewOrchestrator(mqttClient, redisClient, reg, resolver, dispatcher, auditor, cfg.SubscribeTopic, cfg.MQTTQoS)
	if err := orch.Start(); err != nil {
		log.Fatalf("Failed to start ingestion: %v", err)
	}

	sched := scheduler.NewScheduler(dbConn, cfg.RetentionDays)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	webServer := web.NewWebServer(dbConn, thresholds, orch, dispatcher, auditor, cfg.JWTSecret)
	go webServer.Start(fmt.Sprintf(":%d", cfg.HTTPPort))

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	orch.Stop()
	sched.Stop()
	log.Println("Shutdown complete")
}
