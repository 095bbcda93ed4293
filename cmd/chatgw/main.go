package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"relaychat/global"
	"relaychat/logger"
	"relaychat/module/chat/message"
	"relaychat/service/chat"
	"relaychat/service/mgo"
	"relaychat/service/relay"
	"relaychat/tools/ids"
	"relaychat/tools/security"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := global.Load()
	global.ConfigIds()
	global.ConfigRedis()
	global.ConfigMgo(ctx)

	if err := mgo.WaitReady(ctx); err != nil {
		logger.Errorf("[chatgw] mongo never became ready: %v", err)
		return
	}
	store := message.NewStore(mgo.GetDB())

	relayClient, err := relay.NewClient(relay.Config{
		Servers: []string{cfg.NatsURL},
		Name:    "chat-gateway",
	})
	if err != nil {
		logger.Errorf("[chatgw] relay client: %v", err)
		return
	}
	defer func() { _ = relayClient.Close() }()

	gw := chat.NewGateway("gw-"+ids.GenerateString(), store, relay.NewPublisher(relayClient))
	srv := chat.NewServer(gw, security.DefaultOptions(global.GetJwtSecret()))

	r := gin.New()
	r.Use(gin.Recovery())
	srv.RegisterRoutes(r)

	logger.Infof("Chat Service running on %s", cfg.ChatAddr)
	if err := r.Run(cfg.ChatAddr); err != nil {
		logger.Errorf("[chatgw] server stopped: %v", err)
	}
}
