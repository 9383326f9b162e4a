// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepctrl

import "github.com/dicksontsai/nlcore/valtree"

// ClassicalTrustRegion is a classical trust-region size controller: given
// the previous objective f_prev, a candidate objective f_new, and the
// descent's predicted reduction rho_pred,
//
//	finished = f_new < f_prev + c_low*rho_pred   (acceptance)
//	good     = f_new < f_prev + c_high*rho_pred  (expand)
//	bad      = f_new > f_prev + c_low*rho_pred   (contract)
//
// delta is scaled by k_high on good, k_low on bad, and held otherwise.
type ClassicalTrustRegion struct {
	CLow, CHigh   float64
	KHigh, KLow   float64
	MaxContracts  int // bounds consecutive contractions before NonlinearDivergence
}

// DefaultClassicalTrustRegion returns the conventional defaults:
// c_low=0.01, c_high=0.99, k_high=3.5, k_low=0.25.
func DefaultClassicalTrustRegion() ClassicalTrustRegion {
	return ClassicalTrustRegion{CLow: 0.01, CHigh: 0.99, KHigh: 3.5, KLow: 0.25, MaxContracts: 30}
}

type trustRegionState struct {
	delta      float64
	contracts  int
}

func (c ClassicalTrustRegion) Init(initSize float64) State {
	return trustRegionState{delta: initSize}
}

// CurrentSize implements stepctrl.Sizer.
func (s trustRegionState) CurrentSize() float64 { return s.delta }

func (c ClassicalTrustRegion) Evaluate(fPrev, fNew, predictedReduction float64, state State) (Decision, State) {
	s := state.(trustRegionState)
	finished := fNew < fPrev+c.CLow*predictedReduction
	good := fNew < fPrev+c.CHigh*predictedReduction
	bad := fNew > fPrev+c.CLow*predictedReduction

	delta := s.delta
	contracts := s.contracts
	switch {
	case good:
		delta *= c.KHigh
		contracts = 0
	case bad:
		delta *= c.KLow
		contracts++
	default:
		contracts = 0
	}

	result := valtree.Successful
	maxContracts := c.MaxContracts
	if maxContracts <= 0 {
		maxContracts = 30
	}
	if contracts >= maxContracts {
		result = valtree.NonlinearDivergence
	}

	return Decision{Accept: finished, NextSize: delta, Result: result}, trustRegionState{delta: delta, contracts: contracts}
}
