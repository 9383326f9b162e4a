// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import (
	"math"

	"github.com/dicksontsai/nlcore/valtree"
)

// RateState carries the two scaled-diffsize samples the small/diverged/
// converged predicate family needs. Every solver that follows the
// Newton-style termination scheme (Newton/Chord, Gauss-Newton/LM) stores
// one of these in its state and updates it each Step.
type RateState struct {
	Step            int
	Diffsize        float64
	DiffsizePrev    float64
}

// Update returns a new RateState after observing diffsize at the next
// step.
func (r RateState) Update(diffsize float64) RateState {
	return RateState{Step: r.Step + 1, Diffsize: diffsize, DiffsizePrev: r.Diffsize}
}

// SmallDivergedConverged evaluates three predicates over a diffsize
// history:
//
//	small     = diffsize < 10^(2-precision)                 -- declared success
//	rate      = diffsize / diffsize_prev
//	factor    = diffsize * rate / (1 - rate)
//	diverged  = rate non-finite or rate > 2                 -- nonlinear_divergence
//	converged = 0 < factor < kappa                          -- declared success
//
// Precedence small > diverged > converged, and all three require step>=2
// (i.e. at least one prior diffsize sample) since a rate needs two samples
// to compute.
func SmallDivergedConverged(r RateState, precision, kappa float64) (stop bool, result valtree.Result) {
	if r.Step < 2 {
		return false, valtree.Successful
	}

	small := r.Diffsize < math.Pow(10, 2-precision)
	if small {
		return true, valtree.Successful
	}

	rate := r.Diffsize / r.DiffsizePrev
	diverged := math.IsNaN(rate) || math.IsInf(rate, 0) || rate > 2
	if diverged {
		return true, valtree.NonlinearDivergence
	}

	factor := r.Diffsize * rate / (1 - rate)
	converged := factor > 0 && factor < kappa
	if converged {
		return true, valtree.Successful
	}
	return false, valtree.Successful
}

// CauchyTerminate is the minimisation/least-squares Cauchy-style
// termination: stop when the step (or gradient) has become small relative
// to the current iterate, in the configured norm, mirroring
// optimize.Settings' gradient-norm convergence gate. It is a standalone
// predicate: the Terminate methods of the solvers in package opt use
// SmallDivergedConverged, not this function.
func CauchyTerminate(step, y valtree.Tree, atol, rtol float64, kind valtree.NormKind) bool {
	return valtree.ScaledNorm(step, y, atol, rtol, kind) < 1
}
