// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opt implements the nonlinear solvers (Newton/Chord,
// Gauss-Newton/Levenberg-Marquardt, gradient descent, NonlinearCG,
// Bisection, FixedPointIteration) and the top-level entries over them:
// RootFind, FixedPoint, LeastSquares, Minimise. Each solver is a
// num.Solver[S] state machine. Newton, LevenbergMarquardt and
// GradientMinimizer build their steps from a descent.Descent and, where
// relevant, a stepctrl.Controller; GaussNewton, Bisection and
// FixedPointIteration compute their steps directly.
package opt

import (
	"github.com/dicksontsai/nlcore/adjoint"
	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/num"
	"github.com/dicksontsai/nlcore/valtree"
)

// RootFind is the top-level entry solving f(y)=0 from y0 with the given
// solver (Newton or Bisection, or any other num.Solver[S] over the root
// problem class).
func RootFind[S any](f num.AuxFunc, hasAux bool, tags linop.Tags, solver num.Solver[S], y0 valtree.Tree, args any, opts num.Options, maxSteps int, strategy adjoint.Strategy, throw bool) (num.Solution[S], error) {
	problem := num.Problem{F: f, HasAux: hasAux, Tags: tags}
	return runWithAdjoint(problem, solver, y0, args, opts, maxSteps, strategy, throw)
}

// FixedPoint is the top-level entry solving f(y)=y from y0. When solver
// is FixedPointIteration the problem is left native; any other
// (root-native) solver is driven against the subtracted residual produced
// by num.FixedPointToRoot.
func FixedPoint[S any](f num.AuxFunc, hasAux bool, tags linop.Tags, solver num.Solver[S], y0 valtree.Tree, args any, opts num.Options, maxSteps int, strategy adjoint.Strategy, throw bool) (num.Solution[S], error) {
	fpProblem := num.Problem{F: f, HasAux: hasAux, Tags: tags}
	problem := fpProblem
	if _, native := any(solver).(FixedPointIteration); !native {
		problem = num.FixedPointToRoot(fpProblem)
	}
	return runWithAdjoint(problem, solver, y0, args, opts, maxSteps, strategy, throw)
}

// LeastSquares is the top-level entry: given a residual problem, it
// either drives a native least-squares solver (GaussNewton,
// LevenbergMarquardt) directly, or converts to a minimisation problem via
// num.LeastSquaresToMinimise for a minimise-native solver (gradient
// descent, NonlinearCG).
func LeastSquares[S any](problem num.Problem, solver num.Solver[S], y0 valtree.Tree, args any, opts num.Options, maxSteps int, strategy adjoint.Strategy, throw bool) (num.Solution[S], error) {
	driven := problem
	switch any(solver).(type) {
	case GaussNewton, LevenbergMarquardt:
		// native
	default:
		driven = num.LeastSquaresToMinimise(problem)
	}
	return runWithAdjoint(driven, solver, y0, args, opts, maxSteps, strategy, throw)
}

// Minimise is the top-level entry minimising a scalar objective.
func Minimise[S any](problem num.Problem, solver num.Solver[S], y0 valtree.Tree, args any, opts num.Options, maxSteps int, strategy adjoint.Strategy, throw bool) (num.Solution[S], error) {
	return runWithAdjoint(problem, solver, y0, args, opts, maxSteps, strategy, throw)
}

// runWithAdjoint drives the iteration driver under the configured adjoint
// strategy and converts a non-Successful result into an error when throw
// is set. A nil strategy runs the plain driver, the common case when no
// reverse-mode differentiation is in play.
func runWithAdjoint[S any](problem num.Problem, solver num.Solver[S], y0 valtree.Tree, args any, opts num.Options, maxSteps int, strategy adjoint.Strategy, throw bool) (num.Solution[S], error) {
	var sol num.Solution[S]
	primal := func() valtree.Tree {
		sol = num.Solve[S](problem, solver, y0, args, opts, maxSteps)
		return sol.Value
	}
	if strategy != nil {
		strategy.Apply(primal, nil, y0, args, problem.Tags)
	} else {
		primal()
	}
	if throw {
		if err := num.Throw(sol); err != nil {
			return sol, err
		}
	}
	return sol, nil
}
