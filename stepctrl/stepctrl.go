// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stepctrl implements the step-size controllers: a classical
// trust region, backtracking-Armijo line search, a plain learning-rate
// schedule, and a one-dimensional-function adaptor for line searches. A
// controller governs the scalar parameter a descent.Descent consumes (a
// trial step length for a line search, or a trust radius for a trust
// region) and decides accept/expand/contract from the objective values
// before and after a candidate step.
package stepctrl

import "github.com/dicksontsai/nlcore/valtree"

// Decision is the outcome of one controller step.
type Decision struct {
	Accept   bool    // true: take the candidate step
	NextSize float64 // next trial size (step length or trust radius)
	Result   valtree.Result
}

// Controller is the capability interface every step-size controller
// implements.
type Controller interface {
	// Init prepares controller state from the initial trial size.
	Init(initSize float64) State
	// Evaluate decides whether to accept a candidate step given the
	// objective before (fPrev) and after (fNew) it, and the descent's
	// predicted reduction for that step.
	Evaluate(fPrev, fNew, predictedReduction float64, state State) (Decision, State)
}

// State is opaque controller bookkeeping threaded across Evaluate calls.
type State interface{}

// Sizer is an optional capability a controller's State may implement so a
// caller can recover "what trial size would Evaluate be judging right
// now" without threading it separately — e.g. a minimiser reading the
// current learning rate before computing the next descent step.
type Sizer interface {
	CurrentSize() float64
}
