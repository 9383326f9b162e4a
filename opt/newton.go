// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"github.com/dicksontsai/nlcore/descent"
	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/linsolve"
	"github.com/dicksontsai/nlcore/num"
	"github.com/dicksontsai/nlcore/stepctrl"
	"github.com/dicksontsai/nlcore/valtree"
)

// Newton is the root-finder: Newton (rebuild J every step) or Chord
// (reuse the Jacobian built at the initial point) by toggling
// ConstantJacobian, and optionally a backtracking line search along the
// Newton direction via LineSearch. The step direction itself is computed
// by composing a descent.Newton with the configured linear solver; the
// line search, when enabled, is a stepctrl.Controller judging the trial
// step against the sum-of-squares merit 0.5*||f(y)||^2.
type Newton struct {
	ConstantJacobian bool
	LineSearch       bool
	LinSolver        linsolve.Solver     // default Auto
	Controller       stepctrl.Controller // default BacktrackingArmijo, used only when LineSearch is set
}

type newtonState struct {
	op           linop.Operator
	rate         num.RateState
	descentState descent.State
	ctrlState    stepctrl.State
}

// StaticKey reports the solver's configuration, not its array-valued
// fields: HasOp distinguishes Chord (a cached Jacobian persists across
// Step) from plain Newton (no Jacobian is carried forward between steps).
func (s newtonState) StaticKey() any {
	return struct{ HasOp bool }{s.op != nil}
}

func (n Newton) solver() linsolve.Solver {
	if n.LinSolver != nil {
		return n.LinSolver
	}
	return linsolve.Auto{}
}

func (n Newton) descentRule() descent.Descent {
	return descent.Newton{}
}

func (n Newton) controller() stepctrl.Controller {
	if n.Controller != nil {
		return n.Controller
	}
	return stepctrl.DefaultBacktrackingArmijo()
}

func (n Newton) Init(problem num.Problem, y0 valtree.Tree, args any, opts num.Options) newtonState {
	s := newtonState{descentState: n.descentRule().Init(descent.Info{})}
	if n.ConstantJacobian {
		s.op = n.jacobianAt(problem, y0, args)
	}
	if n.LineSearch {
		s.ctrlState = n.controller().Init(1)
	}
	return s
}

// jacobianAt builds a lazy Jacobian of f at y and tallies one linearisation
// against the originating Solve's evaluation counters.
func (n Newton) jacobianAt(problem num.Problem, y valtree.Tree, args any) linop.Operator {
	out0, _ := problem.Eval(y, args)
	outSize := out0.Flatten().Len()
	f := func(dst, x []float64) {
		out, _ := problem.Eval(valtree.FromVector(x), args)
		copy(dst, out.Flatten().RawVector().Data)
	}
	op := linop.NewJacobian(f, y.Flatten().RawVector().Data, outSize, out0.Flatten().RawVector().Data)
	problem.CountJacobian()
	return op
}

func (n Newton) Step(problem num.Problem, y valtree.Tree, args any, opts num.Options, state newtonState) (valtree.Tree, newtonState, any, valtree.Result) {
	fy, aux := problem.Eval(y, args)

	op := state.op
	if op == nil {
		op = n.jacobianAt(problem, y, args)
	}

	info := descent.Info{Y: y, Vector: fy, Operator: op, LinSolver: n.solver()}

	if !n.LineSearch {
		step, _, newDescentState, result := n.descentRule().Step(info, 1, state.descentState)
		if result != valtree.Successful {
			return y, state, aux, result
		}
		yNew := valtree.Add(y, step)
		diffsize := valtree.ScaledNorm(step, y, opts.Atol, opts.Rtol, opts.NormKind)
		newState := newtonState{rate: state.rate.Update(diffsize), descentState: newDescentState}
		if n.ConstantJacobian {
			newState.op = op
		}
		return yNew, newState, aux, valtree.Successful
	}

	size := n.currentSize(state.ctrlState)
	step, predicted, newDescentState, result := n.descentRule().Step(info, size, state.descentState)
	if result != valtree.Successful {
		return y, state, aux, result
	}
	yTrial := valtree.Add(y, step)
	fTrial, auxTrial := problem.Eval(yTrial, args)

	fPrev := 0.5 * valtree.Dot(fy, fy)
	fNew := 0.5 * valtree.Dot(fTrial, fTrial)
	decision, newCtrlState := n.controller().Evaluate(fPrev, fNew, predicted, state.ctrlState)
	if decision.Result != valtree.Successful {
		return y, state, auxTrial, decision.Result
	}

	base := newtonState{descentState: newDescentState, ctrlState: newCtrlState}
	if n.ConstantJacobian {
		base.op = op
	}
	if !decision.Accept {
		base.rate = state.rate
		return y, base, auxTrial, valtree.Successful
	}

	diffsize := valtree.ScaledNorm(step, y, opts.Atol, opts.Rtol, opts.NormKind)
	base.rate = state.rate.Update(diffsize)
	return yTrial, base, auxTrial, valtree.Successful
}

// currentSize extracts the controller's current trial size via
// stepctrl.Sizer.
func (n Newton) currentSize(state stepctrl.State) float64 {
	if s, ok := state.(stepctrl.Sizer); ok {
		return s.CurrentSize()
	}
	return 1
}

func (n Newton) Terminate(problem num.Problem, y valtree.Tree, args any, opts num.Options, state newtonState) (bool, valtree.Result) {
	precision, kappa := defaultPrecisionKappa(opts)
	return num.SmallDivergedConverged(state.rate, precision, kappa)
}
