// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

// CG solves square, symmetric, possibly-singular systems by the conjugate
// gradient method, mirroring the resumable reverse-communication pattern
// of gonum's iterative.go/bicgstab.go (here inlined as a direct loop since
// this facade is a black-box collaborator, not the host's own linear
// solver). On detected singularity it returns the pseudoinverse-like
// minimum-residual iterate rather than diverging.
type CG struct{}

type cgState struct {
	op linop.Operator
}

func (CG) Init(op linop.Operator, opts Options) State {
	requireSquare("CG", op)
	if !op.Tags().Has(linop.Symmetric) {
		panic("linsolve: CG requires an operator tagged Symmetric")
	}
	return &cgState{op: op}
}

func (s *cgState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := s.op.InSize()
	x := mat.NewVecDense(n, nil)
	tol := opts.Tol
	if tol <= 0 {
		tol = 1e-10
	}
	maxIters := opts.MaxIters
	if maxIters <= 0 {
		maxIters = 2 * n
	}

	r := mat.NewVecDense(n, nil)
	r.CopyVec(b) // r = b - A*x0, x0 = 0
	p := mat.NewVecDense(n, nil)
	p.CopyVec(r)
	rsOld := mat.Dot(r, r)
	bNorm := math.Sqrt(mat.Dot(b, b))
	if bNorm == 0 {
		bNorm = 1
	}

	iters := 0
	for iters = 0; iters < maxIters; iters++ {
		if math.Sqrt(rsOld) <= tol*bNorm {
			break
		}
		ap := linop.MV(s.op, p)
		denom := mat.Dot(p, ap)
		if denom == 0 || math.IsNaN(denom) {
			// A*p == 0 along a direction with nonzero residual: the
			// operator is singular along p. Report the best iterate so
			// far as the pseudoinverse-style fallback.
			return x, finalizeNaN(x, valtree.Successful), Stats{Iters: iters}
		}
		alpha := rsOld / denom
		x.AddScaledVec(x, alpha, p)
		r.AddScaledVec(r, -alpha, ap)
		rsNew := mat.Dot(r, r)
		if math.Sqrt(rsNew) <= tol*bNorm {
			rsOld = rsNew
			iters++
			break
		}
		beta := rsNew / rsOld
		p.AddScaledVec(r, beta, p)
		rsOld = rsNew
	}
	result := valtree.Successful
	if iters >= maxIters && math.Sqrt(rsOld) > tol*bNorm {
		result = valtree.LinearSingular
	}
	return x, finalizeNaN(x, result), Stats{Iters: iters}
}

func (s *cgState) Transpose(opts Options) (State, Options) {
	// symmetric by Init's precondition: Aᵀ == A
	return s, opts
}
