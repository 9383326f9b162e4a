// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adjoint specifies the adjoint-strategy contract: the boundary
// between this module's forward iteration driver and a differentiable-
// array host runtime that performs the actual automatic differentiation.
// The core's obligation is to ensure the driver's terminal state is the
// linearisation point (the fixed point of the rewrite map); producing a
// correct cotangent from that point is the strategy's responsibility,
// implemented by the host, not by this module.
package adjoint

import (
	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/linsolve"
	"github.com/dicksontsai/nlcore/valtree"
)

// RewriteFn is the map whose fixed point the driver computes: root_fn for
// root-finding/fixed-point, the gradient of the objective for minimisation,
// the gradient of the sum-of-squares for least-squares.
type RewriteFn func(y valtree.Tree, args any) valtree.Tree

// Strategy is the contract every adjoint strategy satisfies: given the
// primal computation and its rewrite map, produce whatever output the
// host's differentiation pass needs (a plain forward value in the
// non-differentiated case; a value annotated for reverse-mode replay under
// an automatic-differentiation host). This module never interprets the
// output itself — host-side differentiation is out of scope.
type Strategy interface {
	// Apply runs primalFn (the forward driver call) to produce y, and
	// returns the value the host should see.
	Apply(primalFn func() valtree.Tree, rewriteFn RewriteFn, y0 valtree.Tree, args any, tags linop.Tags) valtree.Tree
	// LinearizeAt produces the one-shot linear solve the Implicit strategy
	// needs at the terminal state: solve (d(rewriteFn)/dy)^T * lambda =
	// cotangentOut once, using the configured linear solver (default
	// Auto). RecursiveCheckpoint need not implement this meaningfully
	// (replay differentiates through the loop instead); it returns the
	// cotangent unchanged.
	LinearizeAt(y valtree.Tree, args any, rewriteFn RewriteFn, cotangentOut valtree.Tree) (cotangentIn valtree.Tree, result valtree.Result)
}

// RecursiveCheckpoint runs the primal with a checkpointed bounded loop of
// budget K; reverse-mode differentiation replays from checkpoints rather
// than solving a linear system at the fixed point. Nested solves form a
// stack, and re-entry is safe because each invocation produces a fresh
// state. Since automatic differentiation itself is out of scope here,
// this implementation only carries the checkpoint budget through as a
// recorded parameter; the replay mechanics belong to the host AD runtime
// this module is specified to collaborate with.
type RecursiveCheckpoint struct {
	// CheckpointBudget bounds how many intermediate states the replay may
	// retain; zero means "host default".
	CheckpointBudget int
}

func (c RecursiveCheckpoint) Apply(primalFn func() valtree.Tree, rewriteFn RewriteFn, y0 valtree.Tree, args any, tags linop.Tags) valtree.Tree {
	return primalFn()
}

func (c RecursiveCheckpoint) LinearizeAt(y valtree.Tree, args any, rewriteFn RewriteFn, cotangentOut valtree.Tree) (valtree.Tree, valtree.Result) {
	// Checkpointed replay differentiates through the recorded loop
	// directly; there is no separate fixed-point linear solve to perform
	// here, so the cotangent passes through unchanged.
	return cotangentOut, valtree.Successful
}

// Implicit runs the primal with an unchecked (non-differentiated) loop;
// the cotangent at the fixed point is obtained by solving the linearised
// system (d(rewriteFn)/dy)^T * lambda = cotangentOut once, via LinSolver
// (default Auto).
type Implicit struct {
	LinSolver linsolve.Solver
	LinOpts   linsolve.Options
	// Jacobian builds the linear operator d(rewriteFn)/dy at a point,
	// lazily, for use as the (d(rewriteFn)/dy)^T system; callers
	// typically pass linop.NewJacobian bound to rewriteFn.
	Jacobian func(y valtree.Tree, args any) linop.Operator
}

func (im Implicit) Apply(primalFn func() valtree.Tree, rewriteFn RewriteFn, y0 valtree.Tree, args any, tags linop.Tags) valtree.Tree {
	return primalFn()
}

func (im Implicit) LinearizeAt(y valtree.Tree, args any, rewriteFn RewriteFn, cotangentOut valtree.Tree) (valtree.Tree, valtree.Result) {
	if im.Jacobian == nil {
		panic("adjoint: Implicit.Jacobian must be set to linearise rewriteFn at the fixed point")
	}
	op := im.Jacobian(y, args)
	solver := im.LinSolver
	if solver == nil {
		solver = linsolve.Auto{}
	}
	opT := op.Transpose()
	x, result, _ := linsolve.Solve(solver, opT, cotangentOut.Flatten(), im.LinOpts)
	if result != valtree.Successful {
		return valtree.Zero(cotangentOut.Structure()), result
	}
	return valtree.Unflatten(cotangentOut.Structure(), x), valtree.Successful
}
