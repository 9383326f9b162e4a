// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import (
	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

// Diagonal solves systems against an operator tagged linop.Diagonal in
// O(n), by direct elementwise division; a zero entry (non-Nonsingular) is
// reported as LinearSingular rather than producing Inf. With the
// UnitDiagonal tag, Compute is the identity map on b.
type Diagonal struct{}

type diagonalState struct{ diag []float64 }

func (Diagonal) Init(op linop.Operator, opts Options) State {
	if !op.Tags().Has(linop.Diagonal) {
		panic("linsolve: Diagonal requires an operator tagged Diagonal")
	}
	n := op.InSize()
	diag := make([]float64, n)
	a := op.AsMatrix()
	for i := 0; i < n; i++ {
		diag[i] = a.At(i, i)
	}
	return &diagonalState{diag: diag}
}

func (s *diagonalState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := len(s.diag)
	x := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if s.diag[i] == 0 {
			return x, valtree.LinearSingular, Stats{Iters: 1}
		}
		x.SetVec(i, b.AtVec(i)/s.diag[i])
	}
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}

func (s *diagonalState) Transpose(opts Options) (State, Options) { return s, opts }

// Tridiagonal solves systems against an operator tagged linop.Tridiagonal
// via the Thomas algorithm, the standard O(n) tridiagonal elimination.
type Tridiagonal struct{}

type tridiagonalState struct {
	lower, main, upper []float64
	symmetric          bool
}

func (Tridiagonal) Init(op linop.Operator, opts Options) State {
	if !op.Tags().Has(linop.Tridiagonal) {
		panic("linsolve: Tridiagonal requires an operator tagged Tridiagonal")
	}
	n := op.InSize()
	a := op.AsMatrix()
	main := make([]float64, n)
	lower := make([]float64, n-1)
	upper := make([]float64, n-1)
	for i := 0; i < n; i++ {
		main[i] = a.At(i, i)
		if i > 0 {
			lower[i-1] = a.At(i, i-1)
		}
		if i < n-1 {
			upper[i] = a.At(i, i+1)
		}
	}
	return &tridiagonalState{lower: lower, main: main, upper: upper, symmetric: op.Tags().Has(linop.Symmetric)}
}

func (s *tridiagonalState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := len(s.main)
	x := mat.NewVecDense(n, nil)
	if n == 0 {
		return x, valtree.Successful, Stats{Iters: 1}
	}
	// Thomas algorithm: forward sweep then back substitution.
	cp := make([]float64, n-1)
	dp := make([]float64, n)
	if s.main[0] == 0 {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	cp[0] = s.upper[0] / s.main[0]
	dp[0] = b.AtVec(0) / s.main[0]
	for i := 1; i < n; i++ {
		denom := s.main[i]
		if i-1 < len(s.lower) {
			denom -= s.lower[i-1] * valOr(cp, i-1, 0)
		}
		if denom == 0 {
			return x, valtree.LinearSingular, Stats{Iters: 1}
		}
		if i < n-1 {
			cp[i] = s.upper[i] / denom
		}
		num := b.AtVec(i)
		if i-1 >= 0 {
			num -= s.lower[i-1] * dp[i-1]
		}
		dp[i] = num / denom
	}
	x.SetVec(n-1, dp[n-1])
	for i := n - 2; i >= 0; i-- {
		x.SetVec(i, dp[i]-cp[i]*x.AtVec(i+1))
	}
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}

func valOr(s []float64, i int, def float64) float64 {
	if i < 0 || i >= len(s) {
		return def
	}
	return s[i]
}

func (s *tridiagonalState) Transpose(opts Options) (State, Options) {
	if s.symmetric {
		return s, opts
	}
	return &tridiagonalState{lower: s.upper, main: s.main, upper: s.lower}, opts
}
