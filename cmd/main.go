package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/uydev/route-catalog/internal/config"
	"github.com/uydev/route-catalog/internal/db"
	"github.com/uydev/route-catalog/internal/handlers"
	"github.com/uydev/route-catalog/internal/messaging"
)

func main() {
	cfg := config.Load()

	logger := log.New()
	logger.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	logger.Info("connected to MongoDB")

	collection := client.Database(cfg.MongoDB).Collection("routes")
	if err := db.EnsureRouteIndexes(context.Background(), collection); err != nil {
		logger.WithError(err).Fatal("failed to ensure route indexes")
	}
	routes := &db.MongoRouteCollection{Collection: collection}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	handlers.NewRouteHandler(routes, logger).Register(e)

	var subscriber *messaging.Subscriber
	if cfg.MessagingEnabled() {
		mqttClient, err := messaging.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to MQTT broker")
		}
		subscriber = messaging.NewSubscriber(mqttClient, routes, logger)
		if err := subscriber.Start(); err != nil {
			logger.WithError(err).Fatal("failed to start MQTT subscriber")
		}
	} else {
		logger.Info("MQTT_BROKER_URL not set, running HTTP-only")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()
	logger.WithField("port", cfg.Port).Info("HTTP server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if subscriber != nil {
		subscriber.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server forced to shut down")
	}
	logger.Info("server exiting")
}
