// producer.go: periodic tick source driving Generator -> Detector -> Ring Buffer (§4.4)

package simtemp

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// producer drives the tick cadence described in §4.4. Its goroutine
// management follows rotation.go's BackgroundWorkers: a context+cancel
// pair, a sync.Once-guarded stop, and a WaitGroup the caller can block
// on to know in-flight work has drained before state is freed (§4.7).
//
// Reconfiguration of the period is delivered over a channel rather than
// a shared atomic read directly driving time.Ticker, because
// time.Ticker.Reset must only be called by the goroutine that also
// receives from the ticker's channel (see MPSCConsumer.adjustFlushTiming
// in buffer.go, which observes the same rule).
type producer struct {
	ring     *ring
	cfg      *liveConfig
	clock    *monotonicClock
	metrics  *deviceMetrics
	log      zerolog.Logger
	gen      *generatorState
	det      *detector
	onTick   func(Sample) // test hook; nil in production

	ctx      context.Context
	cancel   context.CancelFunc
	reconfig chan int
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func newProducer(r *ring, cfg *liveConfig, clock *monotonicClock, metrics *deviceMetrics, log zerolog.Logger) *producer {
	ctx, cancel := context.WithCancel(context.Background())
	p := &producer{
		ring:     r,
		cfg:      cfg,
		clock:    clock,
		metrics:  metrics,
		log:      log,
		gen:      newGeneratorState(),
		det:      &detector{},
		ctx:      ctx,
		cancel:   cancel,
		reconfig: make(chan int, 1),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// run is the single producer goroutine: it owns the ticker exclusively,
// so it is the only place that calls ticker.Reset, and the only place
// that invokes tick() — ticks are never run concurrently with each
// other, which keeps Generator/Detector state trivially race-free
// without a lock.
func (p *producer) run() {
	defer p.wg.Done()

	period := time.Duration(p.cfg.PeriodMs()) * time.Millisecond
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case ms := <-p.reconfig:
			ticker.Reset(time.Duration(ms) * time.Millisecond)
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick runs exactly one Generator -> Detector -> push -> wake cycle.
// Per §4.4's failure policy it recovers from a panic in generation (the
// one "unrecoverable condition" a pure function could realistically hit,
// e.g. a corrupted RNG state) by skipping the tick without advancing any
// counters, and logging it — there is no retry, the next tick supersedes.
func (p *producer) tick() {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("simtemp: producer tick skipped")
		}
	}()

	mode := p.cfg.Mode()
	threshold := p.cfg.ThresholdMC()

	tempMC := p.gen.next(mode)
	crossed := p.det.update(tempMC, threshold)

	flags := FlagNewSample
	if crossed {
		flags |= FlagThresholdCrossed
	}

	s := Sample{
		TimestampNs: p.clock.now(),
		TempMC:      tempMC,
		Flags:       flags,
	}

	p.ring.Push(s)

	p.metrics.totalSamplesCount.Add(1)
	p.metrics.totalSamples.Inc()
	p.metrics.bufferFill.Set(float64(p.ring.fill()))
	if crossed {
		p.metrics.thresholdCrossingsCount.Add(1)
		p.metrics.thresholdCrossings.Inc()
		direction := "DOWN"
		if p.det.above {
			direction = "UP"
		}
		p.log.Info().
			Str("direction", direction).
			Int32("temp_mC", tempMC).
			Int32("threshold_mC", threshold).
			Msg("simtemp: threshold crossed")
	}

	if p.onTick != nil {
		p.onTick(s)
	}
}

// reconfigurePeriod requests a new sampling period. Per §4.4 the next
// Sample is produced no later than new_period_ms + ε after this call
// returns; it never blocks the caller, overwriting any not-yet-applied
// pending reconfiguration with the latest request.
func (p *producer) reconfigurePeriod(ms int) {
	for {
		select {
		case p.reconfig <- ms:
			return
		default:
			select {
			case <-p.reconfig:
			default:
			}
		}
	}
}

// stop cancels the producer goroutine and waits for any in-flight tick
// to finish before returning (§4.7 "drain in-flight production").
func (p *producer) stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}
