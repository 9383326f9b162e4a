// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/descent"
	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/linsolve"
	"github.com/dicksontsai/nlcore/num"
	"github.com/dicksontsai/nlcore/stepctrl"
	"github.com/dicksontsai/nlcore/valtree"
)

// residualJacobianAt builds a lazy Jacobian of the residual function at y,
// sized for a least-squares problem (m residuals, n parameters), tallying
// one linearisation against the originating Solve's evaluation counters.
func residualJacobianAt(problem num.Problem, y valtree.Tree, args any) (linop.Operator, valtree.Tree) {
	r0, aux := problem.Eval(y, args)
	m := r0.Flatten().Len()
	f := func(dst, x []float64) {
		out, _ := problem.Eval(valtree.FromVector(x), args)
		copy(dst, out.Flatten().RawVector().Data)
	}
	op := linop.NewJacobian(f, y.Flatten().RawVector().Data, m, r0.Flatten().RawVector().Data)
	problem.CountJacobian()
	_ = aux
	return op, r0
}

// GaussNewton is the least-squares solver specialised to zero damping:
// each step solves J*delta=r directly via the pseudoinverse (SVD, since J
// is generally rectangular) -- never via the normal equations JᵀJ -- and
// takes the full (unit-length) step.
type GaussNewton struct {
	LinSolver linsolve.Solver // default Auto (lands on SVD for a rectangular J)
}

type leastSquaresState struct {
	rate num.RateState
}

func (leastSquaresState) StaticKey() any { return struct{}{} }

func (g GaussNewton) solver() linsolve.Solver {
	if g.LinSolver != nil {
		return g.LinSolver
	}
	return linsolve.Auto{}
}

func (GaussNewton) Init(problem num.Problem, y0 valtree.Tree, args any, opts num.Options) leastSquaresState {
	return leastSquaresState{}
}

func (g GaussNewton) Step(problem num.Problem, y valtree.Tree, args any, opts num.Options, state leastSquaresState) (valtree.Tree, leastSquaresState, any, valtree.Result) {
	op, r := residualJacobianAt(problem, y, args)
	_, aux := problem.Eval(y, args)

	b := r.Flatten()
	delta, result, _ := linsolve.Solve(g.solver(), op, b, linsolve.Options{})
	if result != valtree.Successful {
		return y, state, aux, result
	}
	deltaTree := valtree.Unflatten(y.Structure(), delta)
	yNew := valtree.Sub(y, deltaTree)

	diffsize := valtree.ScaledNorm(deltaTree, y, opts.Atol, opts.Rtol, opts.NormKind)
	newState := leastSquaresState{rate: state.rate.Update(diffsize)}
	return yNew, newState, aux, valtree.Successful
}

func (GaussNewton) Terminate(problem num.Problem, y valtree.Tree, args any, opts num.Options, state leastSquaresState) (bool, valtree.Result) {
	precision, kappa := defaultPrecisionKappa(opts)
	return num.SmallDivergedConverged(state.rate, precision, kappa)
}

// LevenbergMarquardt damps the Gauss-Newton step via the iterative-dual
// descent's trust-region parameterisation: at each iterate it forms the
// normal equations B=JᵀJ and gradient v=Jᵀr, then lets IterativeDualDirect
// (or IterativeDualIndirect, when Indirect is set) solve (B+mu*I)p=v, with
// mu=1/delta for Direct and mu found by an inner root-find so that
// ||p||=delta for Indirect. A stepctrl.Controller (ClassicalTrustRegion by default) grows
// or shrinks delta from the ratio of actual to predicted reduction in
// 0.5*||r||^2, replacing a hand-rolled lambda/nu damping schedule with the
// same descent+controller composition that GradientMinimizer and Newton
// (with LineSearch) use.
type LevenbergMarquardt struct {
	Controller stepctrl.Controller // default ClassicalTrustRegion
	InitDelta  float64             // default 1
	Indirect   bool                // use IterativeDualIndirect instead of IterativeDualDirect
}

type lmState struct {
	rate         num.RateState
	descentState descent.State
	ctrlState    stepctrl.State
}

func (lmState) StaticKey() any { return struct{}{} }

func (l LevenbergMarquardt) descentRule() descent.Descent {
	if l.Indirect {
		return descent.IterativeDualIndirect{}
	}
	return descent.IterativeDualDirect{}
}

func (l LevenbergMarquardt) controller() stepctrl.Controller {
	if l.Controller != nil {
		return l.Controller
	}
	return stepctrl.DefaultClassicalTrustRegion()
}

func (l LevenbergMarquardt) Init(problem num.Problem, y0 valtree.Tree, args any, opts num.Options) lmState {
	initDelta := l.InitDelta
	if initDelta <= 0 {
		initDelta = 1
	}
	return lmState{
		descentState: l.descentRule().Init(descent.Info{}),
		ctrlState:    l.controller().Init(initDelta),
	}
}

// normalEquations forms B=JᵀJ and v=Jᵀr at the current residual Jacobian,
// the system IterativeDualDirect/Indirect's dual step is defined over.
func normalEquations(op linop.Operator, r, y valtree.Tree) (linop.Operator, valtree.Tree) {
	j := op.AsMatrix()
	_, n := j.Dims()
	jtj := mat.NewDense(n, n, nil)
	jtj.Mul(j.T(), j)
	g := linop.MV(op.Transpose(), r.Flatten())
	return linop.NewMatrix(jtj, linop.Symmetric|linop.PositiveSemidefinite), valtree.Unflatten(y.Structure(), g)
}

func (l LevenbergMarquardt) Step(problem num.Problem, y valtree.Tree, args any, opts num.Options, state lmState) (valtree.Tree, lmState, any, valtree.Result) {
	op, r := residualJacobianAt(problem, y, args)
	_, aux := problem.Eval(y, args)

	nop, g := normalEquations(op, r, y)
	info := descent.Info{Y: y, Vector: g, Operator: nop}

	delta := l.currentSize(state.ctrlState)
	step, predicted, newDescentState, result := l.descentRule().Step(info, delta, state.descentState)
	if result != valtree.Successful {
		return y, state, aux, result
	}
	yTrial := valtree.Add(y, step)
	rTrial, auxTrial := problem.Eval(yTrial, args)

	fPrev := 0.5 * valtree.Dot(r, r)
	fNew := 0.5 * valtree.Dot(rTrial, rTrial)
	decision, newCtrlState := l.controller().Evaluate(fPrev, fNew, predicted, state.ctrlState)
	if decision.Result != valtree.Successful {
		return y, state, auxTrial, decision.Result
	}

	base := lmState{descentState: newDescentState, ctrlState: newCtrlState}
	if !decision.Accept {
		base.rate = state.rate
		return y, base, auxTrial, valtree.Successful
	}

	diffsize := valtree.ScaledNorm(step, y, opts.Atol, opts.Rtol, opts.NormKind)
	base.rate = state.rate.Update(diffsize)
	return yTrial, base, auxTrial, valtree.Successful
}

// currentSize extracts the controller's current trust radius via
// stepctrl.Sizer.
func (l LevenbergMarquardt) currentSize(state stepctrl.State) float64 {
	if s, ok := state.(stepctrl.Sizer); ok {
		return s.CurrentSize()
	}
	return 1
}

func (LevenbergMarquardt) Terminate(problem num.Problem, y valtree.Tree, args any, opts num.Options, state lmState) (bool, valtree.Result) {
	precision, kappa := defaultPrecisionKappa(opts)
	return num.SmallDivergedConverged(state.rate, precision, kappa)
}

func defaultPrecisionKappa(opts num.Options) (float64, float64) {
	precision, kappa := opts.Precision, opts.Kappa
	if precision == 0 {
		precision = 2
	}
	if kappa == 0 {
		kappa = 1e-2
	}
	return precision, kappa
}
