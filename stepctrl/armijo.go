// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepctrl

import "github.com/dicksontsai/nlcore/valtree"

// BacktrackingArmijo is a backtracking line search with an Armijo
// sufficient-decrease test. Each Evaluate call multiplies the trial
// step-size by DecreaseFactor (default 0.5) and accepts once
//
//	f(y+delta*d) <= f0 + alpha*delta*<g,d>
//
// where predictedReduction (already scaled by the trial delta, as every
// descent in package descent returns it) plays the role of
// delta*<g,d>, clipped at zero to guard against ascent directions (a
// negative predictedReduction would otherwise make the Armijo test easier
// to satisfy for a bad direction). At least two evaluations are required
// before declaring success, to skip the compute_f0 bootstrap step.
type BacktrackingArmijo struct {
	DecreaseFactor float64 // default 0.5
	Alpha          float64 // backtrack slope, default 0.1
	MaxIters       int     // default 20
}

// DefaultBacktrackingArmijo returns the conventional defaults.
func DefaultBacktrackingArmijo() BacktrackingArmijo {
	return BacktrackingArmijo{DecreaseFactor: 0.5, Alpha: 0.1, MaxIters: 20}
}

type armijoState struct {
	size  float64
	evals int
}

func (BacktrackingArmijo) Init(initSize float64) State {
	return armijoState{size: initSize}
}

// CurrentSize implements stepctrl.Sizer.
func (s armijoState) CurrentSize() float64 { return s.size }

func (a BacktrackingArmijo) Evaluate(fPrev, fNew, predictedReduction float64, state State) (Decision, State) {
	s := state.(armijoState)
	s.evals++

	clipped := predictedReduction
	if clipped > 0 {
		clipped = 0 // guard against ascent directions
	}
	alpha := a.Alpha
	if alpha <= 0 {
		alpha = 0.1
	}
	accept := fNew <= fPrev+alpha*clipped && s.evals >= 2

	decrease := a.DecreaseFactor
	if decrease <= 0 {
		decrease = 0.5
	}
	nextSize := s.size
	if !accept {
		nextSize = s.size * decrease
	}

	result := valtree.Successful
	maxIters := a.MaxIters
	if maxIters <= 0 {
		maxIters = 20
	}
	if !accept && s.evals >= maxIters {
		// A line search's own max-iterations limit is treated as success
		// by the outer solver -- the current (shrunk) size is accepted
		// rather than signalling divergence.
		accept = true
	}

	return Decision{Accept: accept, NextSize: nextSize, Result: result},
		armijoState{size: nextSize, evals: s.evals}
}

// LearningRate is a non-adaptive controller: it always accepts the
// candidate step and holds (or geometrically decays) a fixed trial size,
// used by plain gradient-descent minimisation when no line search is
// configured.
type LearningRate struct {
	Decay float64 // multiplicative decay per step; 1 means constant rate
}

type learningRateState struct{ size float64 }

func (LearningRate) Init(initSize float64) State { return learningRateState{size: initSize} }

// CurrentSize implements stepctrl.Sizer.
func (s learningRateState) CurrentSize() float64 { return s.size }

func (l LearningRate) Evaluate(fPrev, fNew, predictedReduction float64, state State) (Decision, State) {
	s := state.(learningRateState)
	decay := l.Decay
	if decay <= 0 {
		decay = 1
	}
	next := s.size * decay
	return Decision{Accept: true, NextSize: next, Result: valtree.Successful}, learningRateState{size: next}
}

// OneDimensionalObjective adapts a vector-space problem to the scalar
// function phi(delta)=f(y+delta*d) a line search needs.
type OneDimensionalObjective func(delta float64) (value float64, aux any)

// AlongDirection builds a OneDimensionalObjective from a vector objective,
// an iterate y, and a direction d.
func AlongDirection(f func(y valtree.Tree, args any) (valtree.Tree, any), y, d valtree.Tree, args any) OneDimensionalObjective {
	return func(delta float64) (float64, any) {
		trial := valtree.AXPY(delta, d, y)
		out, aux := f(trial, args)
		return out.Flatten().AtVec(0), aux
	}
}
