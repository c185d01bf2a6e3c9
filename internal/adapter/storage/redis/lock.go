package redis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

const (
	leaseTTL     = 30 * time.Second
	refreshEvery = 10 * time.Second
)

type managerLock struct {
	client redis.UniversalClient
	log    *zap.Logger
	cancel context.CancelFunc
}

// NewManagerLock creates the Redis-backed lease that enforces the
// one-manager-per-root assumption. The lease auto-expires so a crashed
// manager does not wedge the root forever.
func NewManagerLock(client redis.UniversalClient, log *zap.Logger) port.ManagerLock {
	return &managerLock{
		client: client,
		log:    log,
	}
}

// Acquire takes the lease for root and keeps it refreshed in the background
// until Release.
func (l *managerLock) Acquire(ctx context.Context, root string) error {
	key := leaseKey(root)
	holder := fmt.Sprintf("%s:%d", hostname(), os.Getpid())

	ok, err := l.client.SetNX(ctx, key, holder, leaseTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		current, _ := l.client.Get(ctx, key).Result()
		return fmt.Errorf("another manager holds the lease for %s (holder %s)", root, current)
	}

	refreshCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go l.refreshLoop(refreshCtx, key)

	l.log.Info("Acquired manager lease", zap.String("root", root), zap.String("holder", holder))
	return nil
}

func (l *managerLock) Release(ctx context.Context, root string) error {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return l.client.Del(ctx, leaseKey(root)).Err()
}

func (l *managerLock) refreshLoop(ctx context.Context, key string) {
	ticker := time.NewTicker(refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.client.Expire(ctx, key, leaseTTL).Err(); err != nil {
				l.log.Error("Lease refresh failed", zap.Error(err))
			}
		}
	}
}

func leaseKey(root string) string {
	return "simulation:manager:" + root
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
