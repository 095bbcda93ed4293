package global

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"relaychat/logger"
)

// Config carries every knob the services read. Values come from the
// environment (optionally seeded from a .env file), prefix RELAYCHAT_.
type Config struct {
	MongoURI     string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB      string `envconfig:"MONGO_DB" default:"chatapp"`
	NatsURL      string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	RedisAddr    string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass    string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB      int    `envconfig:"REDIS_DB" default:"0"`
	JWTSecret    string `envconfig:"JWT_SECRET" default:"dev-only-secret"`
	AuthAddr     string `envconfig:"AUTH_ADDR" default:":3001"`
	ChatAddr     string `envconfig:"CHAT_ADDR" default:":3003"`
	NotifyAddr   string `envconfig:"NOTIFY_ADDR" default:":3004"`
	NotifyWSAddr string `envconfig:"NOTIFY_WS_ADDR" default:":4000"`
	GatewayAddr  string `envconfig:"GATEWAY_ADDR" default:":3000"`
	AuthURL      string `envconfig:"AUTH_URL" default:"http://localhost:3001"`
	ChatURL      string `envconfig:"CHAT_URL" default:"http://localhost:3003"`
	NotifyWSURL  string `envconfig:"NOTIFY_WS_URL" default:"ws://localhost:4000/ws"`
	NodeID       int64  `envconfig:"NODE_ID" default:"1"`
	WorkerDelay  int    `envconfig:"WORKER_DELAY_MS" default:"1000"`
}

var (
	cfg     Config
	cfgOnce sync.Once
)

// Load parses the environment once and caches the result.
func Load() Config {
	cfgOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			logger.Debug(".env not loaded, using process environment")
		}
		if err := envconfig.Process("RELAYCHAT", &cfg); err != nil {
			logger.Errorf("config: parse environment: %v", err)
		}
	})
	return cfg
}

func GetJwtSecret() []byte {
	return []byte(Load().JWTSecret)
}
