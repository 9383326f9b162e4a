// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import (
	"fmt"
	"io"
	"reflect"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

// Options is the sparse, closed-vocabulary option bag threaded unchanged
// through driver and solver calls. Unknown fields are simply left at their
// zero value by solvers that do not recognise them. Descents and
// step-size controllers do not receive Options: they get their vector and
// operator through descent.Info. No solver in package opt reads Vector,
// Operator, F0, ComputeF0, Delta or PredictedReduction.
type Options struct {
	InitStepSize float64        // initial trial step size for a step-size controller
	Vector       valtree.Tree   // gradient or residual, as produced by the descent
	Operator     linop.Operator // Jacobian/Hessian-like linear operator at the current iterate
	F0           float64        // cached objective value, when ComputeF0 is false
	ComputeF0    bool           // gate: compute f0 as part of step 0 rather than reusing Options.F0
	Delta        float64        // trust-region radius
	PredictedReduction func(step valtree.Tree) float64 // predicted-reduction callable for a trust-region controller
	Atol, Rtol   float64        // termination tolerances
	Precision    float64        // "small" threshold exponent input, default 2
	Kappa        float64        // "converged" factor bound, default 1e-2
	NormKind     valtree.NormKind
	Trace        io.Writer // per-iteration progress sink; nil disables tracing
}

// DefaultOptions returns the closed-vocabulary defaults used across the
// termination predicates and step-size controllers.
func DefaultOptions() Options {
	return Options{
		Atol: 1e-6, Rtol: 1e-6,
		Precision: 2, Kappa: 1e-2,
		NormKind: valtree.RMS,
	}
}

// Stats reports the driver's step count alongside the per-solve evaluation
// counters (NFeval/NJeval) every solver's Problem.Eval and
// Problem.CountJacobian calls tally into.
type Stats struct {
	NumSteps int
	MaxSteps int
	NFeval   int
	NJeval   int
}

// Solution is the terminal artifact of a Solve call.
type Solution[S any] struct {
	Value  valtree.Tree
	Result valtree.Result
	State  S
	Aux    any
	Stats  Stats
}

// Solver is the per-problem-class contract every concrete solver
// (Newton/Chord, Gauss-Newton/LM, gradient descent, NonlinearCG, Bisection,
// FixedPointIteration) satisfies, parameterised over its own private state
// type S.
type Solver[S any] interface {
	// Init builds the initial state from the problem and starting point.
	Init(problem Problem, y0 valtree.Tree, args any, opts Options) S
	// Step advances one iteration, returning the new iterate, the new
	// state, the step's aux value, and a result that is Successful unless
	// an internal linear solve or line search failed outright.
	Step(problem Problem, y valtree.Tree, args any, opts Options, state S) (yNew valtree.Tree, newState S, aux any, result valtree.Result)
	// Terminate is checked before every Step.
	Terminate(problem Problem, y valtree.Tree, args any, opts Options, state S) (stop bool, result valtree.Result)
}

// StaticKeyer is an optional capability a solver state may implement so
// the driver can assert, after every Step, that the step did not silently
// change the state's non-array substructure. StaticKey should return a
// comparable value built only from the state's static (shape/tag/config)
// fields, never its array-valued ones.
type StaticKeyer interface {
	StaticKey() any
}

// Solve runs the iteration driver: alternating Terminate/Step under a
// bounded loop. maxSteps<=0 means unbounded (bounded only by int overflow,
// discouraged — callers should always pass a real budget).
func Solve[S any](problem Problem, solver Solver[S], y0 valtree.Tree, args any, opts Options, maxSteps int) Solution[S] {
	counters := &evalCounters{}
	problem.counters = counters

	state := solver.Init(problem, y0, args, opts)
	y := y0
	_, aux := problem.Eval(y0, args)

	result := valtree.Successful
	numSteps := 0
	var staticKey any
	var haveStaticKey bool
	if sk, ok := any(state).(StaticKeyer); ok {
		staticKey = sk.StaticKey()
		haveStaticKey = true
	}

	for {
		stop, termResult := solver.Terminate(problem, y, args, opts, state)
		result = result.Downgrade(termResult)
		if stop || result != valtree.Successful {
			break
		}
		if maxSteps > 0 && numSteps >= maxSteps {
			result = result.Downgrade(valtree.MaxStepsReached)
			break
		}

		yNew, newState, stepAux, stepResult := solver.Step(problem, y, args, opts, state)
		result = result.Downgrade(stepResult)

		if haveStaticKey {
			if sk, ok := any(newState).(StaticKeyer); ok {
				if newKey := sk.StaticKey(); !reflect.DeepEqual(staticKey, newKey) {
					panic(fmt.Sprintf("num: Step changed solver state's static substructure: %v -> %v", staticKey, newKey))
				}
			}
		}

		if opts.Trace != nil {
			fmt.Fprintf(opts.Trace, "it=%4d result=%s\n", numSteps, result)
		}

		y, state, aux = yNew, newState, stepAux
		numSteps++

		if result != valtree.Successful {
			break
		}
	}

	return Solution[S]{
		Value:  y,
		Result: result,
		State:  state,
		Aux:    aux,
		Stats:  Stats{NumSteps: numSteps, MaxSteps: maxSteps, NFeval: counters.nFeval, NJeval: counters.nJeval},
	}
}

// Throw converts a non-Successful Solution into an error: when throw is
// set and result != Successful, the caller gets a runtime failure instead
// of (or alongside) the Solution.
func Throw[S any](sol Solution[S]) error {
	return sol.Result.AsError()
}
