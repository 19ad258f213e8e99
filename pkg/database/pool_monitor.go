package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jjhbk/Devrang/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// RegisterPoolMetrics exports the go_sql_* pool series for db
func RegisterPoolMetrics(reg prometheus.Registerer, db *sql.DB, name string) error {
	return reg.Register(collectors.NewDBStatsCollector(db, name))
}

// PoolMonitor warns when requests start queueing for a connection
type PoolMonitor struct {
	db       *sql.DB
	interval time.Duration

	lastWaitCount    int64
	lastWaitDuration time.Duration
}

func NewPoolMonitor(db *sql.DB, interval time.Duration) *PoolMonitor {
	return &PoolMonitor{db: db, interval: interval}
}

func (p *PoolMonitor) Name() string {
	return "db-pool-monitor"
}

func (p *PoolMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.check(p.db.Stats())
		}
	}
}

// check reports whether any request waited since the previous sample
func (p *PoolMonitor) check(s sql.DBStats) bool {
	waits := s.WaitCount - p.lastWaitCount
	waited := s.WaitDuration - p.lastWaitDuration
	p.lastWaitCount, p.lastWaitDuration = s.WaitCount, s.WaitDuration
	if waits <= 0 {
		return false
	}

	logger.Log.Warn("Database pool saturated",
		zap.Int64("waits", waits),
		zap.Duration("waited", waited),
		zap.Int("open", s.OpenConnections),
		zap.Int("in_use", s.InUse),
		zap.Int("max_open", s.MaxOpenConnections),
	)
	return true
}
