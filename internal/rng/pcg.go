// Package rng provides a seedable, stream-partitioned PCG32 generator.
// A PCG is a plain value: it holds no global state, never blocks, and is
// safe to use from many goroutines as long as each goroutine owns its own
// instance.
package rng

import "math"

const (
	// DefaultSeed is the seed used when none is configured.
	DefaultSeed uint64 = 0
	// DefaultStream is the stream used when none is configured.
	DefaultStream uint64 = 1

	multiplier uint64 = 6364136223846793005
)

// PCG is a permuted congruential generator (PCG32, XSH-RR output).
// Each stream selects a distinct odd increment, so two generators that differ
// only in stream walk different linear recurrences regardless of seed.
type PCG struct {
	state  uint64
	inc    uint64
	stream uint64
	pos    uint64 // steps taken since the last seeding
}

// New returns a generator for the given (seed, stream) pair.
// Every 64-bit seed and stream is valid.
func New(seed, stream uint64) PCG {
	p := PCG{
		inc:    stream<<1 | 1,
		stream: stream,
	}
	p.reset(seed)
	return p
}

// Restore returns the generator for (seed, stream) advanced by pos draws,
// without producing the intermediate values.
func Restore(seed, stream, pos uint64) PCG {
	p := New(seed, stream)
	p.Advance(pos)
	return p
}

// Seed resets the sequence for a new seed, keeping the stream.
// Afterwards the generator is indistinguishable from New(seed, p.Stream()).
func (p *PCG) Seed(seed uint64) {
	p.reset(seed)
}

func (p *PCG) reset(seed uint64) {
	p.state = 0
	p.step()
	p.state += seed
	p.step()
	p.pos = 0
}

// step advances the LCG once and returns the previous state.
func (p *PCG) step() uint64 {
	old := p.state
	p.state = old*multiplier + p.inc
	return old
}

// Stream returns the stream identifier the generator was created with.
func (p *PCG) Stream() uint64 {
	return p.stream
}

// Position returns the number of 32-bit outputs consumed since seeding.
func (p *PCG) Position() uint64 {
	return p.pos
}

// Uint32 returns the next 32-bit output.
func (p *PCG) Uint32() uint32 {
	old := p.step()
	p.pos++
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return xorshifted>>rot | xorshifted<<((-rot)&31)
}

// Uint64 returns 64 bits built from two consecutive 32-bit outputs, high
// word first. It lets *PCG serve as a math/rand/v2 Source.
func (p *PCG) Uint64() uint64 {
	hi := uint64(p.Uint32())
	lo := uint64(p.Uint32())
	return hi<<32 | lo
}

// Float32 returns a value uniformly distributed in [0, 1).
// It uses the top 24 bits of one output, which is exactly the float32
// mantissa width, so the result is never rounded up to 1.
func (p *PCG) Float32() float32 {
	return float32(p.Uint32()>>8) * (1.0 / (1 << 24))
}

// Uniform returns count draws distributed in [low, high).
// Each draw advances the generator by one step. An inverted range is not an
// error: the affine map simply produces values in (high, low].
func (p *PCG) Uniform(low, high float32, count int) []float32 {
	if count <= 0 {
		return []float32{}
	}
	out := make([]float32, count)
	p.UniformInto(out, low, high)
	return out
}

// UniformInto fills dst with draws in [low, high).
// The affine map is computed in float64 so ranges wider than MaxFloat32 do
// not overflow.
func (p *PCG) UniformInto(dst []float32, low, high float32) {
	scale := float64(high) - float64(low)
	for i := range dst {
		v := float32(float64(p.Float32())*scale + float64(low))
		// Narrowing to float32 can round up onto high.
		if low < high && v >= high {
			v = math.Nextafter32(high, low)
		}
		dst[i] = v
	}
}

// Advance jumps the generator delta steps ahead in O(log delta) time.
func (p *PCG) Advance(delta uint64) {
	accMult, accPlus := uint64(1), uint64(0)
	curMult, curPlus := multiplier, p.inc
	for d := delta; d > 0; d >>= 1 {
		if d&1 != 0 {
			accMult *= curMult
			accPlus = accPlus*curMult + curPlus
		}
		curPlus = (curMult + 1) * curPlus
		curMult *= curMult
	}
	p.state = accMult*p.state + accPlus
	p.pos += delta
}
