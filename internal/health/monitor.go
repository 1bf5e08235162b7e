package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the outcome of the latest database check
type Status struct {
	Healthy   bool
	CheckedAt time.Time
	Err       error
}

// Monitor periodically pings the database and remembers the result
type Monitor struct {
	db   Pinger
	log  *logrus.Logger
	cron *cron.Cron

	mu     sync.RWMutex
	status Status
}

// NewMonitor creates a monitor for db. Call Start to schedule checks.
func NewMonitor(db Pinger, log *logrus.Logger) *Monitor {
	return &Monitor{
		db:   db,
		log:  log,
		cron: cron.New(),
	}
}

// Start runs one check immediately and then on every tick of schedule
// (standard cron syntax or descriptors such as "@every 30s").
func (m *Monitor) Start(schedule string) error {
	if _, err := m.cron.AddFunc(schedule, m.Check); err != nil {
		return fmt.Errorf("invalid health schedule %q: %w", schedule, err)
	}
	m.Check()
	m.cron.Start()
	m.log.Infof("Health monitor scheduled: %s", schedule)
	return nil
}

// Stop halts scheduling and waits for a running check to finish
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

// Check pings the database once and records the result
func (m *Monitor) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	err := m.db.PingContext(ctx)
	st := Status{Healthy: err == nil, CheckedAt: time.Now(), Err: err}

	m.mu.Lock()
	prev := m.status
	m.status = st
	m.mu.Unlock()

	switch {
	case err != nil && (prev.Healthy || prev.CheckedAt.IsZero()):
		m.log.WithError(err).Error("Database health check failed")
	case err == nil && !prev.Healthy && !prev.CheckedAt.IsZero():
		m.log.Info("Database health check recovered")
	}
}

// Status returns the latest recorded check
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
