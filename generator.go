// generator.go: pure temperature-sample generation (§4.2)

package simtemp

import "math/rand/v2"

const (
	normalTempMC = 25000

	noisyMinMC = 20000
	noisyMaxMC = 30000

	rampMinMC  = 20000
	rampMaxMC  = 45000
	rampStepMC = 123
)

// generatorState holds the small amount of state the Generator needs
// across ticks: the ramp's current value and the last mode it ran under
// (so a mode switch into "ramp" resets the sawtooth per §4.2's canonical
// behavior), plus the noisy mode's RNG.
//
// Kept as an explicit struct field set rather than hidden package
// globals or function-local statics (the original C used a function-
// local `static s32 ramp`) — see Design Notes §9 "Ramp state as
// function-local persistent storage".
type generatorState struct {
	ramp     int32
	lastMode Mode
	rng      *rand.Rand
}

func newGeneratorState() *generatorState {
	return &generatorState{
		ramp: rampMinMC,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// next produces the next temp_mC for mode, advancing gs as needed. It is
// free of side effects beyond gs itself: no I/O, no locking, no clock
// reads — the Producer supplies the timestamp and flags separately.
func (gs *generatorState) next(mode Mode) int32 {
	defer func() { gs.lastMode = mode }()

	switch mode {
	case ModeNormal:
		return normalTempMC

	case ModeNoisy:
		return int32(noisyMinMC + gs.rng.IntN(noisyMaxMC-noisyMinMC+1))

	case ModeRamp:
		if gs.lastMode != ModeRamp {
			gs.ramp = rampMinMC
		}
		gs.ramp += rampStepMC
		if gs.ramp > rampMaxMC {
			gs.ramp = rampMinMC
		}
		return gs.ramp

	default:
		return normalTempMC
	}
}
