// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linsolve implements a linear-solver facade: a uniform
// init/compute/transpose contract over dense Cholesky, LU, QR, SVD,
// Diagonal, Tridiagonal and an iterative CG method, plus the Auto
// dispatcher that selects among them from an linop.Operator's structure
// tags. Grounded in gonum's reverse-communication iterative solver
// (iterative.go, bicgstab.go) for CG, and gonum/mat's dense decompositions
// for the rest.
package linsolve

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

// Options is the sparse, closed-vocabulary option bag solvers read from.
type Options struct {
	// Tol is the iterative-solver convergence tolerance (CG only).
	Tol float64
	// MaxIters bounds the iterative-solver loop (CG only); zero means a
	// solver-chosen default (2*n).
	MaxIters int
}

// Stats reports per-solve diagnostics.
type Stats struct {
	Iters int // iterations actually taken (1 for direct solvers)
}

// Solver is the uniform contract every concrete linear solver satisfies.
// Init factorises (or otherwise prepares) an operator; Compute solves
// A*x=b (or Aᵀ*x=b once Transpose has been called) reusing that
// preparation; Transpose produces a State for Aᵀ (see State.Transpose).
type Solver interface {
	// Init prepares state to solve systems against op. May panic on a
	// precondition violation — e.g. Cholesky handed an asymmetric
	// operator — since that is a caller/programmer error, not a result
	// code.
	Init(op linop.Operator, opts Options) State
}

// State is solver-specific prepared data returned by Init.
type State interface {
	// Compute solves the (possibly already-transposed) system for b,
	// returning the solution, the outcome, and diagnostics. A singular
	// or NaN-producing solve downgrades result to valtree.LinearSingular
	// rather than panicking — numeric failure is a legitimate result,
	// not a programmer error.
	Compute(b *mat.VecDense, opts Options) (x *mat.VecDense, result valtree.Result, stats Stats)
	// Transpose returns a State solving the transposed system. Cholesky,
	// CG and Diagonal states, and Tridiagonal states whose operator
	// carries the Symmetric tag, return the receiver unchanged. LU and QR
	// return a state that solves against their existing factorisation
	// transposed; SVD returns a state that factorises Aᵀ afresh on every
	// Compute. None of the three checks the Symmetric tag.
	Transpose(opts Options) (State, Options)
}

// Solve is a one-shot convenience wrapper: Init then Compute.
func Solve(s Solver, op linop.Operator, b *mat.VecDense, opts Options) (x *mat.VecDense, result valtree.Result, stats Stats) {
	return s.Init(op, opts).Compute(b, opts)
}

// finalizeNaN converts a successful-looking result into LinearSingular if
// the produced vector contains NaN: result = (result==successful &&
// any_nan(x)) ? linear_singular : result.
func finalizeNaN(x *mat.VecDense, result valtree.Result) valtree.Result {
	if result != valtree.Successful {
		return result
	}
	raw := x.RawVector().Data
	for _, v := range raw {
		if math.IsNaN(v) {
			return valtree.LinearSingular
		}
	}
	return result
}
