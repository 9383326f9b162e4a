// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"github.com/dicksontsai/nlcore/num"
	"github.com/dicksontsai/nlcore/valtree"
)

// FixedPointIteration is the trivial iteration rule y_{k+1} = f(y_k),
// repeated until the scaled step size satisfies the same
// small/diverged/converged family as Newton, applied to
// diffsize = ||f(y_k)-y_k|| rather than a linear-solve delta.
type FixedPointIteration struct{}

type fixedPointState struct {
	rate num.RateState
}

func (fixedPointState) StaticKey() any { return struct{}{} }

func (FixedPointIteration) Init(problem num.Problem, y0 valtree.Tree, args any, opts num.Options) fixedPointState {
	return fixedPointState{}
}

func (FixedPointIteration) Step(problem num.Problem, y valtree.Tree, args any, opts num.Options, state fixedPointState) (valtree.Tree, fixedPointState, any, valtree.Result) {
	yNew, aux := problem.Eval(y, args)
	diff := valtree.Sub(yNew, y)
	diffsize := valtree.ScaledNorm(diff, y, opts.Atol, opts.Rtol, opts.NormKind)
	newState := fixedPointState{rate: state.rate.Update(diffsize)}
	return yNew, newState, aux, valtree.Successful
}

func (FixedPointIteration) Terminate(problem num.Problem, y valtree.Tree, args any, opts num.Options, state fixedPointState) (bool, valtree.Result) {
	precision, kappa := defaultPrecisionKappa(opts)
	return num.SmallDivergedConverged(state.rate, precision, kappa)
}
