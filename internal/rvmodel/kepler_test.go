// Public domain.

package rvmodel_test

import (
	"math"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"

	"github.com/soniakeys/rvcorr/internal/rvmodel"
)

func TestCircular(t *testing.T) {
	ts := []float64{0, 1.5, 7, 12.25, 40}
	const k, n, chi, omega = 3., 2 * math.Pi / 10, .2, 1.
	rv := rvmodel.Keplerian{}.RV(ts, k, n, 0, chi, omega)
	for i, tt := range ts {
		want := k * math.Cos(n*tt+2*math.Pi*chi+omega)
		assert.InDelta(t, want, rv[i], 1e-9, "t=%g", tt)
	}
}

func TestEccentric(t *testing.T) {
	const e = .6
	// at periastron the true anomaly is zero
	rv := rvmodel.Keplerian{}.RV([]float64{0, 10}, 2, 2*math.Pi/10, e, 0, .5)
	want := 2 * (math.Cos(.5) + e*math.Cos(.5))
	assert.InDelta(t, want, rv[0], 1e-9)
	assert.InDelta(t, want, rv[1], 1e-9)

	// Kepler's equation holds for the solved anomaly
	for _, m := range []float64{.1, 1, 2.5, 3.1, 4, 6} {
		ν := rvmodel.TrueAnomaly(unit.Angle(m), e)
		cosE := (e + math.Cos(ν.Rad())) / (1 + e*math.Cos(ν.Rad()))
		sinE := math.Sqrt(1-e*e) * math.Sin(ν.Rad()) / (1 + e*math.Cos(ν.Rad()))
		E := math.Atan2(sinE, cosE)
		got := unit.Angle(E - e*math.Sin(E)).Mod1()
		assert.InDelta(t, m, got.Rad(), 1e-9, "M=%g", m)
	}
}

func TestZeroMeanOverPeriod(t *testing.T) {
	// for a circular orbit the curve averages to zero over a period
	const n = 1000
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = 10 * float64(i) / n
	}
	rv := rvmodel.Keplerian{}.RV(ts, 5, 2*math.Pi/10, 0, .3, 2)
	sum := 0.
	for _, v := range rv {
		sum += v
	}
	assert.InDelta(t, 0, sum/n, 1e-9)
}
