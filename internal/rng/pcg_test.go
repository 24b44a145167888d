package rng

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceOutputs(t *testing.T) {
	// First outputs of the pcg32 reference demo seeded with (42, 54).
	p := New(42, 54)
	want := []uint32{0xa15c02b7, 0x7b47f409, 0xba1d3330, 0x83d2f293, 0xbfa4784b, 0xcbed606e}
	for i, w := range want {
		assert.Equalf(t, w, p.Uint32(), "output %d", i)
	}
}

func TestDeterminism(t *testing.T) {
	pairs := []struct {
		seed, stream uint64
	}{
		{0, 0},
		{0, 1},
		{42, 1},
		{12345, 7},
		{math.MaxUint64, math.MaxUint64},
	}

	for _, tc := range pairs {
		a := New(tc.seed, tc.stream)
		b := New(tc.seed, tc.stream)

		// Same call sequence, mixed call shapes.
		require.Equal(t, a.Uniform(0, 1, 10), b.Uniform(0, 1, 10))
		require.Equal(t, a.Uint32(), b.Uint32())
		require.Equal(t, a.Uniform(-3, 3, 5), b.Uniform(-3, 3, 5))
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestStreamIndependence(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 1 << 40, math.MaxUint64} {
		a := New(seed, 1)
		b := New(seed, 2)
		assert.NotEqualf(t, a.Uniform(0, 1, 10), b.Uniform(0, 1, 10), "seed %d", seed)
	}
}

func TestDifferentSeeds(t *testing.T) {
	a := New(1, 1)
	b := New(2, 1)
	assert.NotEqual(t, a.Uniform(0, 1, 10), b.Uniform(0, 1, 10))
}

func TestReseedMatchesFreshGenerator(t *testing.T) {
	p := New(100, 3)
	first := p.Uniform(0, 1, 10)

	p.Seed(200)
	assert.Equal(t, uint64(0), p.Position())
	assert.Equal(t, uint64(3), p.Stream())

	fresh := New(200, 3)
	second := p.Uniform(0, 1, 10)
	assert.Equal(t, fresh.Uniform(0, 1, 10), second)
	assert.NotEqual(t, first, second)

	// Reseeding with the original seed replays the original sequence.
	p.Seed(100)
	assert.Equal(t, first, p.Uniform(0, 1, 10))
}

func TestUniformRange(t *testing.T) {
	ranges := []struct {
		name      string
		low, high float32
	}{
		{"unit", 0, 1},
		{"centered", -1, 1},
		{"wide", -5, 5},
		{"scaled", 0, 10},
		{"narrow", 0.25, 0.2500001},
		{"large", -1e6, 1e6},
	}

	for _, tc := range ranges {
		t.Run(tc.name, func(t *testing.T) {
			p := New(42, 1)
			values := p.Uniform(tc.low, tc.high, 10000)
			require.Len(t, values, 10000)
			for i, v := range values {
				if v < tc.low || v >= tc.high {
					t.Fatalf("value %d = %v outside [%v, %v)", i, v, tc.low, tc.high)
				}
			}
		})
	}
}

func TestUniformFullFloat32Range(t *testing.T) {
	p := New(42, 1)
	values := p.Uniform(-math.MaxFloat32, math.MaxFloat32, 1000)

	var negative, positive int
	distinct := make(map[float32]struct{})
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("value %d = %v is not finite", i, v)
		}
		if v >= math.MaxFloat32 {
			t.Fatalf("value %d = %v reaches the upper bound", i, v)
		}
		if v < 0 {
			negative++
		} else {
			positive++
		}
		distinct[v] = struct{}{}
	}
	assert.Greater(t, negative, 400)
	assert.Greater(t, positive, 400)
	assert.Greater(t, len(distinct), 990)
}

func TestUniformNotConstant(t *testing.T) {
	p := New(42, 1)
	values := p.Uniform(0, 1, 10)

	same := 0
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			same++
		}
	}
	assert.Less(t, same, 5)
	assert.NotEqual(t, values[0], values[1])
}

func TestUniformMean(t *testing.T) {
	p := New(7, 1)
	const n = 100000
	var sum float64
	for _, v := range p.Uniform(0, 1, n) {
		sum += float64(v)
	}
	assert.InDelta(t, 0.5, sum/n, 0.01)
}

func TestUniformInvertedRange(t *testing.T) {
	p := New(42, 1)
	values := p.Uniform(1, 0, 100)
	require.Len(t, values, 100)
	for _, v := range values {
		assert.True(t, v <= 1 && v > 0, "inverted draw %v outside (0, 1]", v)
	}
}

func TestUniformEmptyCount(t *testing.T) {
	p := New(42, 1)
	assert.Empty(t, p.Uniform(0, 1, 0))
	assert.Empty(t, p.Uniform(0, 1, -3))
	assert.Equal(t, uint64(0), p.Position())
}

func TestUniformAdvancesByCount(t *testing.T) {
	a := New(9, 4)
	b := New(9, 4)

	a.Uniform(0, 1, 7)
	assert.Equal(t, uint64(7), a.Position())

	for range 7 {
		b.Float32()
	}
	// Sequential calls neither repeat nor skip values.
	assert.Equal(t, b.Uniform(0, 1, 3), a.Uniform(0, 1, 3))
}

func TestAdvanceAndRestore(t *testing.T) {
	p := New(31337, 5)
	for range 1000 {
		p.Uint32()
	}

	r := Restore(31337, 5, 1000)
	assert.Equal(t, p.Position(), r.Position())
	assert.Equal(t, p.Uniform(0, 1, 20), r.Uniform(0, 1, 20))

	q := New(31337, 5)
	q.Advance(0)
	fresh := New(31337, 5)
	assert.Equal(t, fresh.Uint32(), q.Uint32())
}

func TestMathRandSource(t *testing.T) {
	p := New(42, 1)
	r := rand.New(&p)
	for range 100 {
		n := r.IntN(9)
		assert.True(t, n >= 0 && n < 9)
	}
	assert.Greater(t, p.Position(), uint64(0))
}

func TestParallelIndependentGenerators(t *testing.T) {
	const workers = 8

	expected := make([][]float32, workers)
	for i := range expected {
		p := New(42, uint64(i))
		expected[i] = p.Uniform(0, 1, 256)
	}

	got := make([][]float32, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := New(42, uint64(i))
			got[i] = p.Uniform(0, 1, 256)
		}()
	}
	wg.Wait()

	assert.Equal(t, expected, got)
}
