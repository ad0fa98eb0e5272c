package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
)

// Sample is one point-in-time reading of host resource usage.
type Sample struct {
	CPUPercent    float64   `json:"cpuPercent"`
	MemPercent    float64   `json:"memPercent"`
	Goroutines    int       `json:"goroutines"`
	UptimeSeconds int64     `json:"uptimeSeconds"`
	CollectedAt   time.Time `json:"collectedAt"`
}

// Monitor periodically samples host CPU and memory usage and keeps the
// latest sample for the health endpoint.
type Monitor struct {
	eventSvc services.EventServiceProvider
	ticker   *time.Ticker
	done     chan bool
	started  time.Time

	mu            sync.RWMutex
	latest        Sample
	lastHighCPUAt time.Time
}

// NewMonitor creates a new Monitor.
func NewMonitor(eventSvc services.EventServiceProvider) *Monitor {
	return &Monitor{
		eventSvc: eventSvc,
		done:     make(chan bool),
		started:  time.Now(),
	}
}

// Run starts the periodic sampling.
func (m *Monitor) Run() {
	log.Info().Msg("Starting background resource monitor...")
	m.ticker = time.NewTicker(15 * time.Second)
	defer m.ticker.Stop()

	// Run once immediately on start
	m.sample()

	for {
		select {
		case <-m.done:
			log.Info().Msg("Stopping background resource monitor.")
			return
		case <-m.ticker.C:
			m.sample()
		}
	}
}

// Stop halts the periodic sampling.
func (m *Monitor) Stop() {
	m.done <- true
}

// Latest returns the most recent sample.
func (m *Monitor) Latest() Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

func (m *Monitor) sample() {
	s := Sample{
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		CollectedAt:   time.Now().UTC(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("Monitor: could not read CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemPercent = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("Monitor: could not read memory usage")
	}

	m.mu.Lock()
	m.latest = s
	m.mu.Unlock()

	m.checkAndAlertForHighCPU(s)
}

func (m *Monitor) checkAndAlertForHighCPU(s Sample) {
	const highCPUThreshold = 90.0
	const alertCooldown = 15 * time.Minute

	if s.CPUPercent <= highCPUThreshold {
		return
	}

	m.mu.Lock()
	recent := time.Since(m.lastHighCPUAt) < alertCooldown
	if !recent {
		m.lastHighCPUAt = time.Now()
	}
	m.mu.Unlock()
	if recent {
		return
	}

	msg := fmt.Sprintf("High CPU usage (%.1f%%) detected on host.", s.CPUPercent)
	m.eventSvc.CreateEvent(context.Background(), "system.alert.cpu", "warn", msg, nil, nil)
}
