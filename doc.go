// Package simtemp provides a simulated temperature sensor device: a
// periodic producer, a bounded overwrite-on-full ring buffer, a
// blocking/non-blocking/poll-capable consumer interface, a threshold
// edge detector, and a runtime-tunable configuration surface.
//
// It is a software model of the "nxp_simtemp" Linux character-device
// driver, rebuilt as a Go library instead of a kernel module: the same
// periodic-timer-to-ring-buffer-to-blocked-reader data flow, the same
// 16-byte Sample wire format, and the same four control-plane
// attributes (sampling_ms, threshold_mC, mode, stats), expressed with
// goroutines, channels and atomics instead of hrtimers, wait queues and
// spinlocks.
//
// # Quick Start
//
//	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
//	dev, err := simtemp.NewDevice("simtemp0", simtemp.DefaultConfig(), logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	var buf [simtemp.SampleSize]byte
//	n, err := dev.Read(context.Background(), buf[:], false)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sample, _ := simtemp.DecodeSample(buf[:n])
//	fmt.Printf("%+v\n", sample)
//
// # Control Plane
//
// The four attributes described in the original driver's sysfs surface
// are ordinary methods here: SetSamplingMs/SamplingMs,
// SetThresholdMC/ThresholdMC, SetMode/ModeString, and the read-only
// StatsText/StatsSnapshot pair. The transport subpackage exposes the
// same four attributes and the Sample stream over HTTP, for callers
// that want the filesystem-path-or-socket-like external contract §6 of
// the design describes rather than an in-process Go API.
//
// # Concurrency
//
// A Device may be read from many goroutines concurrently; each Read
// delivers a distinct Sample to exactly one caller (point-to-point, not
// broadcast), matching §4.5. Configuration writes are safe to call
// concurrently with Read/Poll and with each other.
package simtemp
