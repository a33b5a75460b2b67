// Package rng provides the seeded generators used to pick partitions and
// shuffle drawings. Every generator is deterministic for a given seed.
package rng

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Source yields integers in [0, n).
type Source interface {
	Intn(n int) int
}

// New returns the generator named by kind ("compat" or "pcg").
func New(kind string, seed int) (Source, error) {
	switch kind {
	case "", "compat":
		return NewCompat(seed), nil
	case "pcg":
		return NewPCG(seed), nil
	default:
		return nil, fmt.Errorf("unknown random generator %q", kind)
	}
}

const (
	mbig  = math.MaxInt32
	mseed = 161803398
)

// Compat is a subtractive lagged-Fibonacci generator (Knuth), seeded and
// sampled exactly like the legacy plugin host's System.Random so that
// selections and placements from earlier runs can be reproduced.
type Compat struct {
	seeds  [56]int32
	inext  int
	inextp int
}

// NewCompat seeds a Compat generator. Seeds are truncated to 32 bits.
func NewCompat(seed int) *Compat {
	s := int32(seed)
	var sub int32
	if s == math.MinInt32 {
		sub = mbig
	} else if s < 0 {
		sub = -s
	} else {
		sub = s
	}

	c := &Compat{inextp: 21}
	mj := int32(mseed) - sub
	c.seeds[55] = mj
	mk := int32(1)
	ii := 0
	for i := 1; i < 55; i++ {
		ii += 21
		if ii >= 55 {
			ii -= 55
		}
		c.seeds[ii] = mk
		mk = mj - mk
		if mk < 0 {
			mk += mbig
		}
		mj = c.seeds[ii]
	}
	for k := 1; k < 5; k++ {
		for i := 1; i < 56; i++ {
			n := i + 30
			if n >= 55 {
				n -= 55
			}
			c.seeds[i] -= c.seeds[1+n]
			if c.seeds[i] < 0 {
				c.seeds[i] += mbig
			}
		}
	}
	return c
}

// Next returns the next value in [0, MaxInt32).
func (c *Compat) Next() int {
	a := c.inext + 1
	if a >= 56 {
		a = 1
	}
	b := c.inextp + 1
	if b >= 56 {
		b = 1
	}
	v := c.seeds[a] - c.seeds[b]
	if v == mbig {
		v--
	}
	if v < 0 {
		v += mbig
	}
	c.seeds[a] = v
	c.inext, c.inextp = a, b
	return int(v)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (c *Compat) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	return int(float64(c.Next()) * (1.0 / mbig) * float64(n))
}

// PCG wraps math/rand/v2's PCG generator.
type PCG struct {
	r *rand.Rand
}

func NewPCG(seed int) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

func (p *PCG) Intn(n int) int {
	return p.r.IntN(n)
}
