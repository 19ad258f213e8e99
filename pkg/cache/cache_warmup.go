package cache

import (
	"context"
	"time"

	"github.com/jjhbk/Devrang/pkg/logger"

	"go.uber.org/zap"
)

// WarmupFunc loads one hot entry through a read-through service
type WarmupFunc func(ctx context.Context) error

// Warmer runs its loaders at start and then every interval, so hot keys
// are repopulated shortly after they expire instead of on a user request.
type Warmer struct {
	name     string
	interval time.Duration
	loaders  []WarmupFunc
}

func NewWarmer(name string, interval time.Duration, loaders ...WarmupFunc) *Warmer {
	return &Warmer{name: name, interval: interval, loaders: loaders}
}

func (w *Warmer) Name() string {
	return w.name
}

func (w *Warmer) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.Warm(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Warm runs every loader once and returns how many failed
func (w *Warmer) Warm(ctx context.Context) int {
	failed := 0
	for i, load := range w.loaders {
		if err := load(ctx); err != nil {
			failed++
			logger.Log.Warn("Cache warmup failed", zap.String("warmer", w.name), zap.Int("loader", i), zap.Error(err))
		}
	}
	return failed
}
