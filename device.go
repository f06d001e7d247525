// device.go: the single owned device instance — consumer interface,
// control plane, and lifecycle (§4.5, §4.6, §4.7)

package simtemp

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Device is the single owned struct described in Design Notes §9
// ("Global singleton device state"): one instance per process is enough
// per spec.md §1's non-goals, constructed by NewDevice and passed by
// reference to whatever publishes the stream/control endpoints
// (transport.Server or a test).
type Device struct {
	name string

	ring    *ring
	cfg     *liveConfig
	clock   *monotonicClock
	metrics *deviceMetrics
	prod    *producer
	log     zerolog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// NewDevice allocates and starts a Device: it initializes ring buffer,
// wait primitive, counters and Configuration, then installs the
// Producer, matching the init sequence of §4.7. name identifies the
// device in log lines (the original module's "/dev/simtemp").
func NewDevice(name string, cfg Config, logger zerolog.Logger) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lc, err := newLiveConfig(cfg)
	if err != nil {
		return nil, err
	}

	d := &Device{
		name:    name,
		ring:    newRing(),
		cfg:     lc,
		clock:   newMonotonicClock(),
		metrics: newDeviceMetrics(),
		log:     logger,
		closed:  make(chan struct{}),
	}

	d.prod = newProducer(d.ring, d.cfg, d.clock, d.metrics, logger)

	logger.Info().
		Str("device", name).
		Int("period_ms", cfg.PeriodMs).
		Int("ring_size", ringSize).
		Msg("simtemp: device up")

	return d, nil
}

// Close stops the Producer, drains any in-flight tick, wakes every
// suspended consumer with ErrInterrupted, and releases the clock (§4.7).
// It is idempotent and safe to call more than once.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		close(d.closed)
		d.prod.stop()
		d.clock.stop()
		d.log.Info().Str("device", d.name).Msg("simtemp: device down")
	})
	return nil
}

// Read delivers exactly one whole Sample into buf, matching §4.5:
//
//   - len(buf) < SampleSize fails with ErrInvalidArgument and consumes
//     nothing.
//   - On an empty ring, a non-blocking Read fails with ErrWouldBlock;
//     a blocking Read suspends until the Producer pushes a Sample or ctx
//     is canceled (returning ErrInterrupted, without consuming state).
//   - Exactly one Sample is copied per call; there is no partial read
//     and no coalescing.
func (d *Device) Read(ctx context.Context, buf []byte, nonBlocking bool) (int, error) {
	if len(buf) < SampleSize {
		return 0, ErrInvalidArgument
	}

	for {
		if s, ok := d.ring.Pop(); ok {
			s.PutBytes(buf)
			return SampleSize, nil
		}

		if nonBlocking {
			return 0, ErrWouldBlock
		}

		wait := d.ring.waitChan()
		select {
		case <-wait:
			// Re-check the predicate: a spurious wake (e.g. a racing
			// consumer already drained the Sample) just loops back.
			continue
		case <-d.closed:
			return 0, ErrInterrupted
		case <-ctx.Done():
			return 0, ErrInterrupted
		}
	}
}

// WriteSampleTo pops exactly one Sample (with the same blocking/
// cancellation semantics as Read) and writes its encoded bytes to w.
// This is the "copy sample to user buffer" boundary Design Notes §9
// abstracts as write_out: unlike Read's plain byte-slice copy, writing
// to an io.Writer (e.g. a ResponseWriter whose client disconnected) can
// genuinely fail, which is reported as ErrIOError.
func (d *Device) WriteSampleTo(ctx context.Context, w io.Writer, nonBlocking bool) (int, error) {
	var buf [SampleSize]byte
	n, err := d.Read(ctx, buf[:], nonBlocking)
	if err != nil {
		return 0, err
	}

	if _, err := w.Write(buf[:n]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return n, nil
}

// Poll reports readiness per §4.5: true immediately if the ring is
// non-empty, otherwise it suspends until either a Sample is pushed or
// timeout elapses. Readiness is edge-level and never consumes a Sample.
func (d *Device) Poll(ctx context.Context, timeout time.Duration) (bool, error) {
	if !d.ring.IsEmpty() {
		return true, nil
	}

	wait := d.ring.waitChan()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-wait:
		return !d.ring.IsEmpty(), nil
	case <-timer.C:
		return false, nil
	case <-d.closed:
		return false, ErrInterrupted
	case <-ctx.Done():
		return false, ErrInterrupted
	}
}

// --- Control plane (§4.6) ---

// SamplingMs returns the current sampling_ms attribute value.
func (d *Device) SamplingMs() int { return d.cfg.PeriodMs() }

// SetSamplingMs validates and applies a new sampling_ms, restarting the
// Producer's timer (§4.4, §4.6). On rejection the prior value is left
// intact and ErrInvalidArgument is returned.
func (d *Device) SetSamplingMs(ms int) error {
	if err := d.cfg.setPeriodMs(ms); err != nil {
		return err
	}
	d.prod.reconfigurePeriod(ms)
	return nil
}

// ThresholdMC returns the current threshold_mC attribute value.
func (d *Device) ThresholdMC() int32 { return d.cfg.ThresholdMC() }

// SetThresholdMC validates and applies a new threshold_mC. It has no
// timer effect; the Detector re-evaluates against it on the next tick.
func (d *Device) SetThresholdMC(mc int32) error {
	return d.cfg.setThresholdMC(mc)
}

// ModeString returns the current mode attribute as its canonical text.
func (d *Device) ModeString() string { return d.cfg.Mode().String() }

// SetMode validates and applies a new mode. It takes effect from the
// next tick; above_threshold is not reset on a mode switch (§4.2/§9
// Open Questions — the original source does not reset it either).
func (d *Device) SetMode(s string) error {
	return d.cfg.setMode(s)
}

// Stats is a snapshot of the §3 Statistics counters.
type Stats struct {
	TotalSamples       uint64
	ThresholdCrossings uint64
}

// StatsSnapshot returns the current counters. Counters are read without
// locking (§5): the snapshot may be slightly stale but is monotonic.
func (d *Device) StatsSnapshot() Stats {
	return Stats{
		TotalSamples:       d.metrics.totalSamplesCount.Load(),
		ThresholdCrossings: d.metrics.thresholdCrossingsCount.Load(),
	}
}

// StatsText renders the stats attribute's two-line text form (§4.6):
// "total_samples=<n>\nthreshold_crossings=<n>\n".
func (d *Device) StatsText() string {
	s := d.StatsSnapshot()
	return fmt.Sprintf("total_samples=%d\nthreshold_crossings=%d\n", s.TotalSamples, s.ThresholdCrossings)
}
