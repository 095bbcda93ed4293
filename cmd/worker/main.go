package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"relaychat/global"
	"relaychat/logger"
	"relaychat/service/relay"
	"relaychat/service/worker"
	"relaychat/tools/safe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := global.Load()

	notifyClient := worker.NewNotifyClient(cfg.NotifyWSURL)
	safe.SafeGo(func() { notifyClient.Run(ctx) })

	relayClient, err := relay.NewClient(relay.Config{
		Servers: []string{cfg.NatsURL},
		Name:    "message-worker",
	})
	if err != nil {
		logger.Errorf("[worker] relay client: %v", err)
		return
	}
	defer func() { _ = relayClient.Close() }()

	rel := worker.NewRelay(notifyClient, time.Duration(cfg.WorkerDelay)*time.Millisecond)
	worker.Start(ctx, relayClient, rel)

	logger.Info("Worker: waiting for messages in queue: " + relay.Subject)
	<-ctx.Done()
}
