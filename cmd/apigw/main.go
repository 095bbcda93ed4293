package main

import (
	"github.com/gin-gonic/gin"

	"relaychat/global"
	"relaychat/logger"
	"relaychat/service/gatewayproxy"
	"relaychat/service/storage"
)

func main() {
	cfg := global.Load()
	global.ConfigRedis()

	limiter := gatewayproxy.NewLimiter(storage.Client(), gatewayproxy.DefaultRules())
	srv, err := gatewayproxy.NewServer(cfg.AuthURL, cfg.ChatURL, limiter)
	if err != nil {
		logger.Errorf("[apigw] bad upstream url: %v", err)
		return
	}

	r := gin.New()
	r.Use(gin.Recovery())
	srv.RegisterRoutes(r)

	logger.Infof("API Gateway Service running on %s", cfg.GatewayAddr)
	logger.Infof("Proxying Auth Service to: %s", cfg.AuthURL)
	logger.Infof("Proxying Chat Service to: %s", cfg.ChatURL)
	if err := r.Run(cfg.GatewayAddr); err != nil {
		logger.Errorf("[apigw] server stopped: %v", err)
	}
}
