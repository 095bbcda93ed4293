package mgo

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"relaychat/logger"
	"relaychat/tools/errs"
)

// Config represents the MongoDB configuration.
type Config struct {
	URI         string
	Database    string
	Username    string
	Password    string
	AuthSource  string
	MaxPoolSize int
}

type Manager struct {
	mu        sync.RWMutex
	db        *mongo.Database
	readyCh   chan struct{} // closed once on first successful connect
	readyOnce sync.Once

	lastErr atomic.Value // error
}

var globalMgr = Manager{readyCh: make(chan struct{})}

func GetManager() *Manager { return &globalMgr }

// StartAsync runs until ctx.Done(); closes the ready channel on first
// connect and keeps reconnecting with backoff after drops.
func StartAsync(ctx context.Context, cfg Config) {
	go globalMgr.run(ctx, cfg)
}

func (m *Manager) run(ctx context.Context, cfg Config) {
	const (
		baseBackoff = 200 * time.Millisecond
		maxBackoff  = 5 * time.Second
		healthEvery = 10 * time.Second
		failThresh  = 3
	)

	for {
		// connect phase with backoff
		attempt := 0
		var client *mongo.Client
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			cli, err := connect(ctx, cfg)
			if err == nil {
				client = cli
				m.mu.Lock()
				m.db = cli.Database(cfg.Database)
				m.mu.Unlock()
				m.readyOnce.Do(func() { close(m.readyCh) })
				logger.Infof("[mongo] connected uri=%s db=%s", cfg.URI, cfg.Database)
				break
			}

			m.lastErr.Store(err)
			logger.Warnf("[mongo] connect failed: %v", err)

			backoff := baseBackoff << attempt
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			jitter := time.Duration(rand.Int63n(int64(backoff/5) + 1))
			timer := time.NewTimer(backoff - jitter/2)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			if attempt < 6 {
				attempt++
			}
		}

		// health phase: ping until the connection is declared dead
		fail := 0
		ticker := time.NewTicker(healthEvery)
	health:
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				_ = client.Disconnect(context.Background())
				m.mu.Lock()
				m.db = nil
				m.mu.Unlock()
				return
			case <-ticker.C:
				if err := client.Ping(ctx, readpref.Primary()); err != nil {
					fail++
					m.lastErr.Store(err)
					if fail >= failThresh {
						logger.Warnf("[mongo] connection lost, reconnecting: %v", err)
						ticker.Stop()
						_ = client.Disconnect(context.Background())
						m.mu.Lock()
						m.db = nil
						m.mu.Unlock()
						break health
					}
				} else {
					fail = 0
				}
			}
		}
	}
}

func connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, errs.New("mongo uri is required")
	}
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxPoolSize))
	}
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: cfg.AuthSource,
		})
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cli, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, errs.WrapMsg(err, "connect mongo", "uri", cfg.URI)
	}
	if err := cli.Ping(cctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, errs.WrapMsg(err, "ping mongo", "uri", cfg.URI)
	}
	return cli, nil
}

// Ready is closed after the first successful connect.
func Ready() <-chan struct{} {
	return globalMgr.readyCh
}

func Err() error {
	if v := globalMgr.lastErr.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// TryGetDB returns the database handle if connected.
func TryGetDB() (*mongo.Database, bool) {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	if globalMgr.db == nil {
		return nil, false
	}
	return globalMgr.db, true
}

// GetDB panics when the manager is not ready; wait on Ready() first.
func GetDB() *mongo.Database {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	if globalMgr.db == nil {
		panic("mongo not ready: wait Ready() or use TryGetDB()")
	}
	return globalMgr.db
}

// WaitReady blocks until the first connect or ctx cancellation.
func WaitReady(ctx context.Context) error {
	select {
	case <-globalMgr.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
