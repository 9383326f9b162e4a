// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"math"

	"github.com/dicksontsai/nlcore/num"
	"github.com/dicksontsai/nlcore/valtree"
)

// Bisection is a scalar root-finder: given a bracket [Lower, Upper] with
// f changing sign across it, it halves the bracket each step. y0 passed
// to num.Solve is ignored in favour of the
// solver's own Lower/Upper configuration (a bracket, not a single starting
// point, is this solver's real input) -- callers typically pass
// valtree.FromVector([]float64{(Lower+Upper)/2}) for y0 to keep the
// Structure consistent with the scalar problem.
type Bisection struct {
	Lower, Upper float64
}

type bisectionState struct {
	lower, upper   float64
	fLower, fUpper float64
}

func (bisectionState) StaticKey() any { return struct{}{} }

func evalScalar(problem num.Problem, x float64, args any) float64 {
	out, _ := problem.Eval(valtree.FromVector([]float64{x}), args)
	return out.Flatten().AtVec(0)
}

func (b Bisection) Init(problem num.Problem, y0 valtree.Tree, args any, opts num.Options) bisectionState {
	return bisectionState{
		lower: b.Lower, upper: b.Upper,
		fLower: evalScalar(problem, b.Lower, args),
		fUpper: evalScalar(problem, b.Upper, args),
	}
}

func (b Bisection) Step(problem num.Problem, y valtree.Tree, args any, opts num.Options, state bisectionState) (valtree.Tree, bisectionState, any, valtree.Result) {
	mid := 0.5 * (state.lower + state.upper)
	fMid := evalScalar(problem, mid, args)
	_, aux := problem.Eval(valtree.FromVector([]float64{mid}), args)

	newState := state
	if sameSign(fMid, state.fLower) {
		newState.lower, newState.fLower = mid, fMid
	} else {
		newState.upper, newState.fUpper = mid, fMid
	}
	return valtree.FromVector([]float64{mid}), newState, aux, valtree.Successful
}

func sameSign(a, b float64) bool {
	return (a >= 0) == (b >= 0)
}

func (Bisection) Terminate(problem num.Problem, y valtree.Tree, args any, opts num.Options, state bisectionState) (bool, valtree.Result) {
	atol := opts.Atol
	if atol <= 0 {
		atol = 1e-9
	}
	width := state.upper - state.lower
	if width < 0 {
		width = -width
	}
	if width < atol {
		return true, valtree.Successful
	}
	if math.IsNaN(state.fLower) || math.IsNaN(state.fUpper) {
		return true, valtree.NonlinearDivergence
	}
	return false, valtree.Successful
}
