// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamDeterministic(t *testing.T) {
	a := NewStream(42)
	b := NewStream(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestExpSamplerTransparentRate(t *testing.T) {
	s := NewExpSampler(NewStream(1), TransparentRate)
	for i := 0; i < 10; i++ {
		require.Zero(t, s.Draw())
	}
}

func TestExpSamplerPositive(t *testing.T) {
	s := NewExpSampler(NewStream(1), 2.0)
	for i := 0; i < 1000; i++ {
		require.GreaterOrEqual(t, s.Draw(), 0.0)
	}
}

func TestSeedForTrial(t *testing.T) {
	require.Equal(t, int64(10), SeedForTrial(10, 5, 0))
	require.Equal(t, int64(15), SeedForTrial(10, 5, 1))
	require.Equal(t, int64(20), SeedForTrial(10, 5, 2))
}

func TestSubStreamDeterministic(t *testing.T) {
	a := NewStream(7).Sub(3)
	b := NewStream(7).Sub(3)
	require.Equal(t, a.Float64(), b.Float64())

	c := NewStream(7).Sub(4)
	require.NotEqual(t, a.Float64(), c.Float64())
}

func TestDeriveSeedDeterministic(t *testing.T) {
	require.Equal(t, DeriveSeed(1, 2), DeriveSeed(1, 2))
	require.NotEqual(t, DeriveSeed(1, 2), DeriveSeed(1, 3))
}
