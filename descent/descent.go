// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package descent implements the descent algebra: rules that, given a
// scalar step-size parameter and local derivative information (a
// gradient/residual vector and a linear operator), produce a step in
// parameter space. The Newton root-finder, Levenberg-Marquardt and the
// gradient-based minimisers in package opt compose one of these with a
// package stepctrl.Controller (Newton only when its line search is
// enabled); GaussNewton, Bisection and FixedPointIteration compute their
// steps directly.
package descent

import (
	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/linsolve"
	"github.com/dicksontsai/nlcore/valtree"
)

// Info is the local derivative information a descent consumes at the
// current iterate: a vector (gradient for minimisation/NonlinearCG, or
// residual for Newton/Gauss-Newton) and an operator (Jacobian or a
// Hessian-like B).
type Info struct {
	Y        valtree.Tree
	Vector   valtree.Tree
	Operator linop.Operator
	// LinSolver and LinOpts configure the linear solve the Newton family
	// delegates to; nil LinSolver defaults to linsolve.Auto{}. The
	// iterative-dual descents ignore both and use a dense QR solve.
	LinSolver linsolve.Solver
	LinOpts   linsolve.Options
}

func (i Info) solver() linsolve.Solver {
	if i.LinSolver != nil {
		return i.LinSolver
	}
	return linsolve.Auto{}
}

// Descent is the capability interface every descent rule implements. State
// is opaque per-descent bookkeeping (NonlinearCG's previous gradient and
// direction; the iterative-dual's cached factorisation), created once by
// Init and threaded through successive Step calls by the owning solver.
type Descent interface {
	// Init prepares descent state from the problem's initial derivative
	// information.
	Init(info Info) State
	// Step computes a step in parameter space for the given step-size
	// parameter (a learning rate, a line-search trial length, or a trust
	// radius, depending on the concrete descent), along with a predicted
	// reduction used by step-size controllers, and the updated state.
	Step(info Info, stepSizeParam float64, state State) (step valtree.Tree, predictedReduction float64, newState State, result valtree.Result)
}

// State is opaque descent bookkeeping threaded across Step calls.
type State interface{}
