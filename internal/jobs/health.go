package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Dan9191/grocery-store/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// HealthMonitor pings the store on a cron schedule and remembers the result
type HealthMonitor struct {
	store   repository.Pinger
	log     *logrus.Logger
	timeout time.Duration
	cron    *cron.Cron
	healthy atomic.Bool
}

// NewHealthMonitor schedules store pings; schedule uses cron syntax or descriptors like "@every 30s"
func NewHealthMonitor(store repository.Pinger, schedule string, timeout time.Duration, log *logrus.Logger) (*HealthMonitor, error) {
	m := &HealthMonitor{
		store:   store,
		log:     log,
		timeout: timeout,
		cron:    cron.New(),
	}
	m.healthy.Store(true)

	if _, err := m.cron.AddFunc(schedule, m.Check); err != nil {
		return nil, fmt.Errorf("invalid health check schedule %q: %w", schedule, err)
	}
	return m, nil
}

// Start runs the schedule in the background
func (m *HealthMonitor) Start() {
	m.cron.Start()
}

// Stop halts the schedule and waits for a running check
func (m *HealthMonitor) Stop() {
	<-m.cron.Stop().Done()
}

// Check pings the store once and logs state changes
func (m *HealthMonitor) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.store.Ping(ctx)
	was := m.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		m.log.Errorf("Store became unreachable: %v", err)
	case err == nil && !was:
		m.log.Info("Store is reachable again")
	case err != nil:
		m.log.Debugf("Store still unreachable: %v", err)
	}
}

// Healthy reports the result of the last check
func (m *HealthMonitor) Healthy() bool {
	return m.healthy.Load()
}
