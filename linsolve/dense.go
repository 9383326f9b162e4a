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

// Cholesky solves square, symmetric, (believed) positive-definite systems.
// It panics at Init if the operator is not tagged Symmetric: a missing tag
// is a caller error, not a result code.
type Cholesky struct{}

type choleskyState struct {
	op  linop.Operator
	chol mat.Cholesky
	ok   bool
}

func (Cholesky) Init(op linop.Operator, opts Options) State {
	requireSquare("Cholesky", op)
	if !op.Tags().Has(linop.Symmetric) {
		panic("linsolve: Cholesky requires an operator tagged Symmetric")
	}
	var sym mat.SymDense
	a := op.AsMatrix()
	n, _ := a.Dims()
	sym.SymmetricDim(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}
	st := &choleskyState{op: op}
	st.ok = st.chol.Factorize(&sym)
	return st
}

func (s *choleskyState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := s.op.InSize()
	x := mat.NewVecDense(n, nil)
	if !s.ok {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	if err := s.chol.SolveVecTo(x, b); err != nil {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}

func (s *choleskyState) Transpose(opts Options) (State, Options) {
	// symmetric by construction: Aᵀ == A
	return s, opts
}

// LU solves square, generally-asymmetric, nonsingular systems via gonum's
// LU decomposition.
type LU struct{}

type luState struct {
	op   linop.Operator
	lu   mat.LU
	cond float64
}

func (LU) Init(op linop.Operator, opts Options) State {
	requireSquare("LU", op)
	st := &luState{op: op}
	st.lu.Factorize(op.AsMatrix())
	st.cond = st.lu.Cond()
	return st
}

func (s *luState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := s.op.InSize()
	x := mat.NewVecDense(n, nil)
	if math.IsInf(s.cond, 1) || math.IsNaN(s.cond) {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	if err := s.lu.SolveVecTo(x, false, b); err != nil {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}

func (s *luState) Transpose(opts Options) (State, Options) {
	return &luTransposeState{base: s}, opts
}

type luTransposeState struct{ base *luState }

func (s *luTransposeState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := s.base.op.InSize()
	x := mat.NewVecDense(n, nil)
	if err := s.base.lu.SolveVecTo(x, true, b); err != nil {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}
func (s *luTransposeState) Transpose(opts Options) (State, Options) { return s.base, opts }

// QR solves square full-rank systems: A·solve(A,v)=v for any v, a useful
// round-trip check for the other dense solvers.
type QR struct{}

type qrState struct {
	op linop.Operator
	qr mat.QR
}

func (QR) Init(op linop.Operator, opts Options) State {
	requireSquare("QR", op)
	st := &qrState{op: op}
	st.qr.Factorize(op.AsMatrix())
	return st
}

func (s *qrState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := s.op.InSize()
	x := mat.NewVecDense(n, nil)
	if err := s.qr.SolveVecTo(x, false, b); err != nil {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}

func (s *qrState) Transpose(opts Options) (State, Options) {
	return &qrTransposeState{base: s}, opts
}

type qrTransposeState struct{ base *qrState }

func (s *qrTransposeState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := s.base.op.InSize()
	x := mat.NewVecDense(n, nil)
	if err := s.base.qr.SolveVecTo(x, true, b); err != nil {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}
func (s *qrTransposeState) Transpose(opts Options) (State, Options) { return s.base, opts }

// SVD solves square or rectangular, possibly rank-deficient systems by the
// minimum-norm pseudoinverse solution (e.g. a singular system
// [[1,1],[1,1]]·x=[1,1] returns the minimum-norm solution). Auto's
// non-square branch always lands here.
type SVD struct{}

type svdState struct {
	op  linop.Operator
	svd mat.SVD
	ok  bool
}

func (SVD) Init(op linop.Operator, opts Options) State {
	st := &svdState{op: op}
	st.ok = st.svd.Factorize(op.AsMatrix(), mat.SVDThin)
	return st
}

func (s *svdState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	n := s.op.InSize()
	x := mat.NewVecDense(n, nil)
	if !s.ok {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	s.svd.SolveVecTo(x, b, -1) // -1: gonum picks the minimum-norm least-squares solution
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}

func (s *svdState) Transpose(opts Options) (State, Options) {
	return &svdTransposeState{base: s}, opts
}

type svdTransposeState struct{ base *svdState }

func (s *svdTransposeState) Compute(b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	m := s.base.op.OutSize()
	x := mat.NewVecDense(m, nil)
	if !s.base.ok {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	// solve the transposed least-squares problem by factorising
	// AsMatrix().T() afresh on every call; the stored factors of A are
	// not reused.
	var svdT mat.SVD
	ok := svdT.Factorize(s.base.op.AsMatrix().T(), mat.SVDThin)
	if !ok {
		return x, valtree.LinearSingular, Stats{Iters: 1}
	}
	svdT.SolveVecTo(x, b, -1)
	return x, finalizeNaN(x, valtree.Successful), Stats{Iters: 1}
}
func (s *svdTransposeState) Transpose(opts Options) (State, Options) { return s.base, opts }

func requireSquare(name string, op linop.Operator) {
	if op.InSize() != op.OutSize() {
		panic("linsolve: " + name + " requires a square operator")
	}
}
