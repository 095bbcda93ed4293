package global

import (
	"context"

	"relaychat/logger"
	"relaychat/service/mgo"
	"relaychat/service/storage"
	"relaychat/tools/ids"
)

// ConfigIds pins the snowflake node from config.
func ConfigIds() {
	ids.SetNodeID(Load().NodeID)
}

// ConfigRedis connects the shared redis client; absence is tolerated,
// presence marks and rate limiting then fail soft.
func ConfigRedis() {
	c := Load()
	err := storage.InitRedis(storage.Config{Addr: c.RedisAddr, Password: c.RedisPass, DB: c.RedisDB})
	if err != nil {
		logger.Warnf("[boot] redis unavailable, presence disabled: %v", err)
	}
}

// ConfigMgo starts the async mongo manager.
func ConfigMgo(ctx context.Context) {
	c := Load()
	mgo.StartAsync(ctx, mgo.Config{
		URI:         c.MongoURI,
		Database:    c.MongoDB,
		MaxPoolSize: 20,
	})
}
