// Public domain.

// Package rvmodel computes Keplerian radial velocity curves.
package rvmodel

import (
	"math"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"
)

// Keplerian is the radial velocity signature of a single planet on a
// Keplerian orbit.  The zero value is ready to use.
type Keplerian struct{}

// RV returns the radial velocity contribution at times ts of a planet with
// semi-amplitude k, mean motion n, eccentricity e, phase chi and argument of
// periastron omega.
//
// Chi is the fraction of a period elapsed since periastron at t = 0, so the
// mean anomaly is M = n t + 2π chi.
func (Keplerian) RV(ts []float64, k, n, e, chi, omega float64) []float64 {
	rv := make([]float64, len(ts))
	ecw := e * math.Cos(omega)
	for i, t := range ts {
		m := unit.Angle(n*t + 2*math.Pi*chi).Mod1()
		ν := TrueAnomaly(m, e)
		rv[i] = k * (math.Cos((ν + unit.Angle(omega)).Rad()) + ecw)
	}
	return rv
}

// TrueAnomaly solves Kepler's equation for mean anomaly m and eccentricity
// e and returns the true anomaly.
func TrueAnomaly(m unit.Angle, e float64) unit.Angle {
	if e == 0 {
		return m
	}
	return kepler.True(kepler.Kepler3(e, m), e)
}
