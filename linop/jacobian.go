// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// VectorFunc is the flat-vector function interface this module consumes
// for Jacobian/gradient construction. It is differentiated numerically,
// never symbolically or automatically — this type only specifies the
// evaluation contract a Jacobian is built from.
type VectorFunc func(dst, x []float64)

// jacobianOperator is a lazily-linearised Jacobian of f at y0. MulVecTo
// triggers a directional derivative by finite differences; AsMatrix
// triggers full materialisation. Both borrow f and y0 immutably — the
// operator never mutates them.
type jacobianOperator struct {
	f       VectorFunc
	y0      []float64
	f0      []float64 // f(y0), cached
	inSize  int
	outSize int
	step    float64 // finite-difference step
}

// NewJacobian builds a lazy Jacobian operator of f at y0. outSize is the
// dimension of f's output (m); y0 has dimension n. f0, if non-nil, is a
// cached evaluation of f(y0) reused to avoid a redundant call (the driver
// already has it in most steps).
func NewJacobian(f VectorFunc, y0 []float64, outSize int, f0 []float64) Operator {
	if f0 == nil {
		f0 = make([]float64, outSize)
		f(f0, y0)
	}
	return &jacobianOperator{
		f: f, y0: append([]float64(nil), y0...), f0: f0,
		inSize: len(y0), outSize: outSize,
		step: math.Sqrt(2.220446049250313e-16),
	}
}

func (o *jacobianOperator) InSize() int  { return o.inSize }
func (o *jacobianOperator) OutSize() int { return o.outSize }

// MulVecTo computes a directional derivative J*v (trans==false) by a
// forward difference along v, or Jᵀ*v (trans==true) by materialising the
// full central-difference Jacobian (2n extra evaluations) and multiplying
// by its transpose — the latter is intended for occasional use (e.g. one
// gradient per outer step), not inner loops.
func (o *jacobianOperator) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	if !trans {
		v := toSlice(x, o.inSize)
		norm := 0.0
		for _, vi := range v {
			norm += vi * vi
		}
		h := o.step * (1 + math.Sqrt(norm))
		if h == 0 {
			h = o.step
		}
		yph := make([]float64, o.inSize)
		for i := range yph {
			yph[i] = o.y0[i] + h*v[i]
		}
		fph := make([]float64, o.outSize)
		o.f(fph, yph)
		for i := 0; i < o.outSize; i++ {
			dst.SetVec(i, (fph[i]-o.f0[i])/h)
		}
		return
	}
	// Transposed action via the full materialised Jacobian: exact and
	// simple to reason about; avoided in hot inner loops by callers that
	// only ever need the untransposed action (Newton/Chord).
	jt := o.AsMatrix().T()
	dst.MulVec(jt, x)
}

func (o *jacobianOperator) Transpose() Operator {
	return &jacobianTranspose{base: o}
}

func (o *jacobianOperator) AsMatrix() *mat.Dense {
	dst := mat.NewDense(o.outSize, o.inSize, nil)
	fd.Jacobian(dst, o.f, o.y0, &fd.JacobianSettings{
		Formula:    fd.Central,
		Concurrent: true,
	})
	return dst
}

func (o *jacobianOperator) Tags() Tags { return 0 }

type jacobianTranspose struct{ base *jacobianOperator }

func (o *jacobianTranspose) InSize() int  { return o.base.OutSize() }
func (o *jacobianTranspose) OutSize() int { return o.base.InSize() }
func (o *jacobianTranspose) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	o.base.MulVecTo(dst, !trans, x)
}
func (o *jacobianTranspose) Transpose() Operator  { return o.base }
func (o *jacobianTranspose) AsMatrix() *mat.Dense { var t mat.Dense; t.CloneFrom(o.base.AsMatrix().T()); return &t }
func (o *jacobianTranspose) Tags() Tags           { return o.base.Tags() }

func toSlice(v mat.Vector, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = v.AtVec(i)
	}
	return out
}

// CompareJacobian cross-checks an analytic operator's materialisation
// against a finite-difference Jacobian of f at y0. It returns the max
// absolute difference and whether it is within tol.
func CompareJacobian(analytic Operator, f VectorFunc, y0 []float64, outSize int, tol float64) (maxDiff float64, ok bool) {
	numeric := NewJacobian(f, y0, outSize, nil).AsMatrix()
	a := analytic.AsMatrix()
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := math.Abs(a.At(i, j) - numeric.At(i, j))
			if d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff, maxDiff <= tol
}
