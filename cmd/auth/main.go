package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"relaychat/global"
	"relaychat/logger"
	"relaychat/module/user"
	"relaychat/service/mgo"
	"relaychat/tools/security"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := global.Load()
	global.ConfigMgo(ctx)

	if err := mgo.WaitReady(ctx); err != nil {
		logger.Errorf("[auth] mongo never became ready: %v", err)
		return
	}

	store := user.NewStore(mgo.GetDB())
	ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := store.EnsureIndexes(ictx); err != nil {
		logger.Warnf("[auth] ensure indexes: %v", err)
	}
	cancel()

	jwtOpts := security.DefaultOptions(global.GetJwtSecret())
	svc := user.NewService(store, jwtOpts)
	handler := user.NewHandler(svc, store, jwtOpts)

	r := gin.New()
	r.Use(gin.Recovery())
	handler.RegisterRoutes(r)

	logger.Infof("Auth Service running on %s", cfg.AuthAddr)
	if err := r.Run(cfg.AuthAddr); err != nil {
		logger.Errorf("[auth] server stopped: %v", err)
	}
}
