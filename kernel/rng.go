// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"math"
	"math/rand"
)

// TransparentRate is the sentinel service rate meaning "zero service
// time" — a transparent switch, or an endpoint with instantaneous
// processing.
const TransparentRate = -1

// Stream is a deterministic U(0,1) source. A trial's Simulator owns one
// shared Stream consumed, in event-dispatch order, by every node and
// switch sampler — that single-threaded consumption order is what makes
// a seed reproduce a byte-identical run.
type Stream struct {
	rng *rand.Rand
}

// NewStream seeds a fresh deterministic stream.
func NewStream(seed int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

// Float64 draws the next uniform sample in (0, 1).
func (s *Stream) Float64() float64 {
	// rand.Float64 returns [0,1); nudge away from exactly 0 so the
	// result lies in the open interval (0,1). Since u < 1, the
	// exponential sampler's -ln(1-u) never sees ln(0).
	u := s.rng.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64
	}
	return u
}

// Sub derives a new, independent deterministic stream from this one and
// a discriminant, via a splitmix64-style mix so it stays reproducible
// across platforms. Used to give each endpoint its own uplink-selection
// stream, separate from the shared service-time stream (§4.4).
func (s *Stream) Sub(discriminant int64) *Stream {
	return NewStream(mixSeed(int64(s.rng.Uint64()), discriminant))
}

// DeriveSeed combines a base seed with a discriminant deterministically,
// with the same mix Sub uses, but from (seed, index) alone rather than
// from stream state. The per-endpoint uplink streams are built with Sub,
// not with DeriveSeed.
func DeriveSeed(base int64, discriminant int64) int64 {
	return mixSeed(base, discriminant)
}

func mixSeed(base, discriminant int64) int64 {
	x := uint64(base) ^ (uint64(discriminant)*0x9E3779B97F4A7C15 + 0x9E3779B97F4A7C15)
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}

// ExpSampler draws exponentially-distributed service times from a shared
// Stream via inverse-CDF: -ln(1-u)/rate. A rate of TransparentRate always
// returns zero.
type ExpSampler struct {
	stream *Stream
	rate   float64
}

// NewExpSampler builds a sampler bound to stream with the given rate.
func NewExpSampler(stream *Stream, rate float64) *ExpSampler {
	return &ExpSampler{stream: stream, rate: rate}
}

// Draw returns the next service-time sample.
func (e *ExpSampler) Draw() float64 {
	if e.rate == TransparentRate {
		return 0
	}
	u := e.stream.Float64()
	return -math.Log(1-u) / e.rate
}

// SeedForTrial implements the run configuration's seed formula:
// startingSeed + trialIndex*seedMultiplier.
func SeedForTrial(startingSeed, seedMultiplier int64, trialIndex int) int64 {
	return startingSeed + int64(trialIndex)*seedMultiplier
}
