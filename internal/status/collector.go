package status

import (
	"context"
	"errors"
	"sync"
	"time"

	"cenov2/internal/power"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultInterval is the footer refresh period.
const DefaultInterval = 6 * time.Second

// CPUPercentFunc returns total CPU usage since the previous call.
type CPUPercentFunc func(ctx context.Context) (float64, error)

// CPUCountFunc returns the number of logical CPUs.
type CPUCountFunc func(ctx context.Context) (int, error)

// Collector gathers Snapshots.
type Collector struct {
	fs      *power.SysFS
	percent CPUPercentFunc
	count   CPUCountFunc
	now     func() time.Time
	log     zerolog.Logger

	countOnce sync.Once
	cpuCount  int
}

// Option configures a Collector.
type Option func(*Collector)

// WithCPUFuncs replaces the gopsutil readers (tests).
func WithCPUFuncs(percent CPUPercentFunc, count CPUCountFunc) Option {
	return func(c *Collector) {
		c.percent = percent
		c.count = count
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// NewCollector creates a Collector reading below fs.
func NewCollector(fs *power.SysFS, log zerolog.Logger, opts ...Option) *Collector {
	c := &Collector{
		fs:      fs,
		percent: gopsutilPercent,
		count:   gopsutilCount,
		now:     time.Now,
		log:     log.With().Str("component", "status").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Collect reads every source once. It never fails; unreadable sources are
// left empty and logged at debug level.
func (c *Collector) Collect(ctx context.Context) Snapshot {
	snap := Snapshot{TakenAt: c.now()}

	if gov, err := c.fs.Governor(0); err == nil {
		snap.Governor = gov
	} else {
		c.log.Debug().Err(err).Msg("governor unavailable")
	}
	if khz, err := c.fs.CurFreqKHz(0); err == nil {
		snap.FreqMHz = int(khz / 1000)
	}

	if bat, ok := ReadBattery(c.fs); ok {
		snap.Battery = bat
	}
	snap.AC = ReadAC(c.fs)

	if pct, err := c.percent(ctx); err == nil {
		snap.CPUPercent = pct
		snap.HasCPU = true
	} else {
		c.log.Debug().Err(err).Msg("cpu usage unavailable")
	}
	c.countOnce.Do(func() {
		if n, err := c.count(ctx); err == nil {
			c.cpuCount = n
		}
	})
	snap.CPUCount = c.cpuCount
	return snap
}

func gopsutilPercent(ctx context.Context) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, errors.New("no cpu samples")
	}
	return pcts[0], nil
}

func gopsutilCount(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}
