// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"gonum.org/v1/gonum/diff/fd"

	"github.com/dicksontsai/nlcore/descent"
	"github.com/dicksontsai/nlcore/num"
	"github.com/dicksontsai/nlcore/stepctrl"
	"github.com/dicksontsai/nlcore/valtree"
)

// gradientAt computes the gradient of the (scalar) objective at y by
// central finite differences, via the same gonum diff/fd collaborator
// linop.NewJacobian uses, and tallies one linearisation against the
// originating Solve's evaluation counters.
func gradientAt(problem num.Problem, y valtree.Tree, args any) valtree.Tree {
	yv := y.Flatten().RawVector().Data
	scalarF := func(x []float64) float64 {
		out, _ := problem.Eval(valtree.FromVector(x), args)
		return out.Flatten().AtVec(0)
	}
	g := make([]float64, len(yv))
	fd.Gradient(g, scalarF, yv, &fd.Settings{Formula: fd.Central, Concurrent: true})
	problem.CountJacobian()
	return valtree.FromVector(g)
}

// GradientMinimizer minimises a scalar objective by composing a
// descent.Descent (Gradient or NormalizedGradient, possibly NonlinearCG)
// with a stepctrl.Controller (LearningRate or BacktrackingArmijo).
type GradientMinimizer struct {
	Descent      descent.Descent
	Controller   stepctrl.Controller
	InitStepSize float64
}

// DefaultGradientMinimizer returns plain gradient descent with a constant
// learning rate, the simplest minimiser in this package.
func DefaultGradientMinimizer() GradientMinimizer {
	return GradientMinimizer{
		Descent:      descent.Gradient{},
		Controller:   stepctrl.LearningRate{},
		InitStepSize: 0.1,
	}
}

// NonlinearCGMinimizer returns a minimiser using the NonlinearCG descent
// with a backtracking-Armijo line search.
func NonlinearCGMinimizer(formula descent.BetaFormula) GradientMinimizer {
	return GradientMinimizer{
		Descent:      descent.NonlinearCG{Formula: formula},
		Controller:   stepctrl.DefaultBacktrackingArmijo(),
		InitStepSize: 1,
	}
}

type minimizerState struct {
	descentState descent.State
	ctrlState    stepctrl.State
	rate         num.RateState
	fCur         float64
}

func (minimizerState) StaticKey() any { return struct{}{} }

func (g GradientMinimizer) Init(problem num.Problem, y0 valtree.Tree, args any, opts num.Options) minimizerState {
	grad := gradientAt(problem, y0, args)
	info := descent.Info{Y: y0, Vector: grad}
	initSize := g.InitStepSize
	if initSize <= 0 {
		initSize = opts.InitStepSize
	}
	if initSize <= 0 {
		initSize = 1
	}
	out0, _ := problem.Eval(y0, args)
	return minimizerState{
		descentState: g.Descent.Init(info),
		ctrlState:    g.Controller.Init(initSize),
		fCur:         out0.Flatten().AtVec(0),
	}
}

func (g GradientMinimizer) Step(problem num.Problem, y valtree.Tree, args any, opts num.Options, state minimizerState) (valtree.Tree, minimizerState, any, valtree.Result) {
	grad := gradientAt(problem, y, args)
	info := descent.Info{Y: y, Vector: grad}

	size := g.currentSize(state.ctrlState)
	step, predicted, newDescentState, result := g.Descent.Step(info, size, state.descentState)
	if result != valtree.Successful {
		return y, state, nil, result
	}
	yTrial := valtree.Add(y, step)
	outTrial, aux := problem.Eval(yTrial, args)
	fTrial := outTrial.Flatten().AtVec(0)

	decision, newCtrlState := g.Controller.Evaluate(state.fCur, fTrial, predicted, state.ctrlState)
	if decision.Result != valtree.Successful {
		return y, state, aux, decision.Result
	}

	if !decision.Accept {
		newState := minimizerState{
			descentState: newDescentState,
			ctrlState:    newCtrlState,
			rate:         state.rate,
			fCur:         state.fCur,
		}
		return y, newState, aux, valtree.Successful
	}

	diffsize := valtree.ScaledNorm(step, y, opts.Atol, opts.Rtol, opts.NormKind)
	newState := minimizerState{
		descentState: newDescentState,
		ctrlState:    newCtrlState,
		rate:         state.rate.Update(diffsize),
		fCur:         fTrial,
	}
	return yTrial, newState, aux, valtree.Successful
}

// currentSize extracts the controller's current trial size via
// stepctrl.Sizer.
func (g GradientMinimizer) currentSize(state stepctrl.State) float64 {
	if s, ok := state.(stepctrl.Sizer); ok {
		return s.CurrentSize()
	}
	return g.InitStepSize
}

func (GradientMinimizer) Terminate(problem num.Problem, y valtree.Tree, args any, opts num.Options, state minimizerState) (bool, valtree.Result) {
	precision, kappa := defaultPrecisionKappa(opts)
	return num.SmallDivergedConverged(state.rate, precision, kappa)
}
