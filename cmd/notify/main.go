package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"relaychat/global"
	"relaychat/logger"
	"relaychat/service/notify"
	"relaychat/service/relay"
	"relaychat/tools/safe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := global.Load()

	srv := notify.NewServer()

	relayClient, err := relay.NewClient(relay.Config{
		Servers: []string{cfg.NatsURL},
		Name:    "notification-service",
	})
	if err != nil {
		logger.Errorf("[notify] relay client: %v", err)
		return
	}
	defer func() { _ = relayClient.Close() }()

	srv.StartConsumer(ctx, relayClient)

	// websocket listener for clients and the worker relay
	wsEngine := gin.New()
	wsEngine.Use(gin.Recovery())
	srv.RegisterWS(wsEngine)
	safe.SafeGo(func() {
		logger.Infof("Notification WebSocket Server listening on %s", cfg.NotifyWSAddr)
		if err := wsEngine.Run(cfg.NotifyWSAddr); err != nil {
			logger.Errorf("[notify] ws server stopped: %v", err)
		}
	})

	// plain HTTP health check on its own port
	httpEngine := gin.New()
	httpEngine.Use(gin.Recovery())
	srv.RegisterHealth(httpEngine)
	logger.Infof("Notification Service HTTP listening on %s", cfg.NotifyAddr)
	if err := httpEngine.Run(cfg.NotifyAddr); err != nil {
		logger.Errorf("[notify] http server stopped: %v", err)
	}
}
