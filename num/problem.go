// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package num implements the iteration driver: the generic bounded loop
// that every solver (Newton/Chord, Gauss-Newton/LM, gradient descent,
// NonlinearCG, Bisection, FixedPointIteration) drives through, the
// problem-class adaptors ("fixed-point->root, least-squares->minimise by
// subtraction/sum-of-squares"), and the Cauchy-termination predicate
// family shared by every solver's Terminate method.
//
// Structurally this generalises a classic for-it-range-maxIt solve loop
// (with its convergence checks ahead of and inside each iteration) into a
// solver-agnostic driver parameterised over a per-solver state type,
// splitting the generic loop shape from each solver's private bookkeeping
// fields.
package num

import (
	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

// VectorFunc is the flat-vector function this module's solvers consume,
// re-exported from linop for convenience at call sites that build a
// Problem directly from a slice-based function (no aux).
type VectorFunc = linop.VectorFunc

// AuxFunc is the has_aux function shape: f(y,args) -> (out, aux).
type AuxFunc func(y valtree.Tree, args any) (out valtree.Tree, aux any)

// noAux is the sentinel installed when HasAux is false. It is an ordinary
// empty struct value: reading, printing or comparing it does not panic.
type noAux struct{}

// AuxSentinel is the aux value threaded through a Problem whose HasAux is
// false. A single-value type assertion of it to any type other than noAux
// panics at the call site; no other use of it fails.
var AuxSentinel any = noAux{}

// evalCounters tallies function and Jacobian evaluations for a single
// Solve call. It is shared, via pointer, by every copy of the Problem the
// driver hands to a solver, so a solver's helper functions (jacobianAt,
// residualJacobianAt, gradientAt, ...) all tally into the same counters
// the originating Solve call surfaces on Solution.Stats.
type evalCounters struct {
	nFeval, nJeval int
}

// Problem bundles a pure function, its has_aux flag, and the structural
// tag set communicated to linear solvers.
type Problem struct {
	// F is the user function. When HasAux is false, F's second return
	// value is ignored by the driver and AuxSentinel is threaded in its
	// place instead.
	F AuxFunc
	// HasAux reports whether F's second return value is a genuine
	// per-step auxiliary value the caller wants threaded back.
	HasAux bool
	// Tags communicates structural hints (symmetric, positive-definite,
	// diagonal, ...) to the linear solvers a descent may invoke.
	Tags linop.Tags

	counters *evalCounters
}

// wrappedF returns an AuxFunc that always produces a real aux value: F's
// own aux when HasAux, or AuxSentinel otherwise.
func (p Problem) wrappedF() AuxFunc {
	if p.HasAux {
		return p.F
	}
	f := p.F
	return func(y valtree.Tree, args any) (valtree.Tree, any) {
		out, _ := f(y, args)
		return out, AuxSentinel
	}
}

// Eval evaluates the problem at y, always returning a real (non-failing)
// aux value per the wrapping rule above, and tallies the call against the
// originating Solve's NFeval counter when one is attached.
func (p Problem) Eval(y valtree.Tree, args any) (valtree.Tree, any) {
	if p.counters != nil {
		p.counters.nFeval++
	}
	return p.wrappedF()(y, args)
}

// CountJacobian tallies one Jacobian (or, for a scalar objective, one
// gradient) construction against the originating Solve's NJeval counter.
// Solvers that linearise the problem each step (Newton/Chord, Gauss-Newton,
// Levenberg-Marquardt, the gradient-based minimisers) call this once per
// linearisation; the individual evaluations the linearisation performs are
// tallied separately through Eval.
func (p Problem) CountJacobian() {
	if p.counters != nil {
		p.counters.nJeval++
	}
}
