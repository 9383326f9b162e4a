// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/valtree"
)

// IterativeDualDirect is the "Direct" flavour of the trust-region dual
// step: for trust-radius parameter delta, compute mu=1/delta (+Inf when
// delta==0, in which case the step is the zero vector), solve
// (B+mu*I)p=v by a dense QR factorisation of B+mu*I, and return step=-p.
// Info.LinSolver and Info.LinOpts are not used.
type IterativeDualDirect struct{}

func (IterativeDualDirect) Init(Info) State { return emptyState{} }

func (IterativeDualDirect) Step(info Info, delta float64, state State) (valtree.Tree, float64, State, valtree.Result) {
	if delta == 0 {
		return valtree.Zero(info.Vector.Structure()), 0, state, valtree.Successful
	}
	mu := 1 / delta
	p, result := solveRegularized(info, mu)
	if result != valtree.Successful {
		return valtree.Zero(info.Vector.Structure()), 0, state, result
	}
	step := valtree.Scale(p, -1)
	predicted := -valtree.Dot(info.Vector, p)
	return step, predicted, state, valtree.Successful
}

// solveRegularized solves (B+mu*I)p=v for mu>=0 using the dense matrix
// directly (the iterative-dual inner solve needs the factorisation's R
// factor for the companion scalar root-find, so it is not routed through
// the linsolve facade here).
func solveRegularized(info Info, mu float64) (valtree.Tree, valtree.Result) {
	b := info.Operator.AsMatrix()
	n, _ := b.Dims()
	reg := mat.NewDense(n, n, nil)
	reg.Copy(b)
	for i := 0; i < n; i++ {
		reg.Set(i, i, reg.At(i, i)+mu)
	}
	var qr mat.QR
	qr.Factorize(reg)
	v := info.Vector.Flatten()
	x := mat.NewVecDense(n, nil)
	if err := qr.SolveVecTo(x, false, v); err != nil {
		return valtree.Zero(info.Vector.Structure()), valtree.LinearSingular
	}
	if anyNaNVec(x) {
		return valtree.Zero(info.Vector.Structure()), valtree.LinearSingular
	}
	return valtree.Unflatten(info.Vector.Structure(), x), valtree.Successful
}

// backSolveUpperTriangular solves R*q=p for q given R upper triangular
// (n x n), the q=R^-1 p used by the dphi/dlambda derivative below.
func backSolveUpperTriangular(r *mat.Dense, p *mat.VecDense, n int) *mat.VecDense {
	q := mat.NewVecDense(n, nil)
	for i := n - 1; i >= 0; i-- {
		sum := p.AtVec(i)
		for j := i + 1; j < n; j++ {
			sum -= r.At(i, j) * q.AtVec(j)
		}
		diag := r.At(i, i)
		if diag == 0 {
			q.SetVec(i, 0)
			continue
		}
		q.SetVec(i, sum/diag)
	}
	return q
}

func anyNaNVec(v *mat.VecDense) bool {
	for _, x := range v.RawVector().Data {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

// IterativeDualIndirect is the "Indirect" flavour of the trust-region dual
// step: given trust radius delta, accept the unregularised Newton step if
// its norm is already < delta; otherwise run an inner scalar root-find for
// the Lagrange multiplier lambda with ||p(lambda)||=delta, then take the
// direct step at that lambda.
type IterativeDualIndirect struct {
	// Tol is the inner root-find's bracket-width/iterate-distance
	// tolerance; defaults to 1e-3.
	Tol float64
	// MaxInnerIters bounds the inner Newton-on-lambda loop; defaults to 50.
	MaxInnerIters int
}

func (IterativeDualIndirect) Init(Info) State { return emptyState{} }

func (o IterativeDualIndirect) Step(info Info, delta float64, state State) (valtree.Tree, float64, State, valtree.Result) {
	if delta == 0 {
		return valtree.Zero(info.Vector.Structure()), 0, state, valtree.Successful
	}
	p0, result := solveRegularized(info, 0)
	if result != valtree.Successful {
		return valtree.Zero(info.Vector.Structure()), 0, state, result
	}
	if valtree.Norm(p0, valtree.L2) < delta {
		step := valtree.Scale(p0, -1)
		predicted := -valtree.Dot(info.Vector, p0)
		return step, predicted, state, valtree.Successful
	}

	lambda, result := o.findLambda(info, delta)
	if result != valtree.Successful {
		return valtree.Zero(info.Vector.Structure()), 0, state, result
	}
	p, result := solveRegularized(info, lambda)
	if result != valtree.Successful {
		return valtree.Zero(info.Vector.Structure()), 0, state, result
	}
	step := valtree.Scale(p, -1)
	predicted := -valtree.Dot(info.Vector, p)
	return step, predicted, state, valtree.Successful
}

// findLambda runs a bracketed Newton root-find: brackets [lower,upper]
// with upper=||g||/delta initially, Newton updates using
// dphi/dlambda=-||q||^2/||p(lambda)|| with q=R^-1 p from the QR
// factorisation of B+lambda*I, falling back to
// max(1e-3*upper, sqrt(upper*lower)) when a Newton step exits the bracket.
func (o IterativeDualIndirect) findLambda(info Info, delta float64) (float64, valtree.Result) {
	tol := o.Tol
	if tol <= 0 {
		tol = 1e-3
	}
	maxIters := o.MaxInnerIters
	if maxIters <= 0 {
		maxIters = 50
	}

	gNorm := valtree.Norm(info.Vector, valtree.L2)
	lower, upper := 0.0, gNorm/delta
	lambda := upper
	prevLambda := math.Inf(1)

	b := info.Operator.AsMatrix()
	n, _ := b.Dims()
	v := info.Vector.Flatten()

	for iter := 0; iter < maxIters; iter++ {
		reg := mat.NewDense(n, n, nil)
		reg.Copy(b)
		for i := 0; i < n; i++ {
			reg.Set(i, i, reg.At(i, i)+lambda)
		}
		var qr mat.QR
		qr.Factorize(reg)
		p := mat.NewVecDense(n, nil)
		if err := qr.SolveVecTo(p, false, v); err != nil {
			return 0, valtree.LinearSingular
		}
		pNorm := math.Sqrt(mat.Dot(p, p))
		phi := pNorm - delta

		if iter >= 2 && (upper-lower < tol || math.Abs(lambda-prevLambda) < tol) {
			return lambda, valtree.Successful
		}

		if phi > 0 {
			lower = lambda
		} else {
			upper = lambda
		}

		r := qr.RTo(nil)
		q := backSolveUpperTriangular(r, p, n)
		qNorm := math.Sqrt(mat.Dot(q, q))
		dphi := 0.0
		if pNorm != 0 {
			dphi = -qNorm * qNorm / pNorm
		}

		var next float64
		if dphi != 0 {
			next = lambda - phi/dphi
		}
		if dphi == 0 || next <= lower || next >= upper || math.IsNaN(next) {
			next = math.Max(1e-3*upper, math.Sqrt(upper*lower))
		}
		prevLambda = lambda
		lambda = next
	}
	return lambda, valtree.Successful
}
