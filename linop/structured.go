// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import "gonum.org/v1/gonum/mat"

// diagonalOperator represents a diagonal matrix by its diagonal entries.
// Sparse structure beyond diagonal and tridiagonal is out of scope; a
// general sparse operator should be wrapped as an explicit matrix or a
// lazy Jacobian instead.
type diagonalOperator struct {
	diag []float64
}

// NewDiagonal builds a diagonal operator from its entries. Nonsingular is
// tagged automatically when every entry is nonzero, UnitDiagonal when every
// entry equals one; both are genuine properties of the supplied data, not
// guesses.
func NewDiagonal(diag []float64) Operator {
	return &diagonalOperator{diag: append([]float64(nil), diag...)}
}

func (o *diagonalOperator) InSize() int  { return len(o.diag) }
func (o *diagonalOperator) OutSize() int { return len(o.diag) }

func (o *diagonalOperator) MulVecTo(dst *mat.VecDense, _ bool, x mat.Vector) {
	// diagonal matrices are self-transpose, so trans is irrelevant
	for i, d := range o.diag {
		dst.SetVec(i, d*x.AtVec(i))
	}
}

func (o *diagonalOperator) Transpose() Operator { return o }

func (o *diagonalOperator) AsMatrix() *mat.Dense {
	n := len(o.diag)
	m := mat.NewDense(n, n, nil)
	for i, d := range o.diag {
		m.Set(i, i, d)
	}
	return m
}

func (o *diagonalOperator) Tags() Tags {
	t := Symmetric | Diagonal
	nonsingular := true
	unit := true
	for _, d := range o.diag {
		if d == 0 {
			nonsingular = false
		}
		if d != 1 {
			unit = false
		}
	}
	if nonsingular {
		t |= Nonsingular
	}
	if unit {
		t |= UnitDiagonal
	}
	return t
}

// tridiagonalOperator represents a tridiagonal matrix by its three
// diagonals: lower (length n-1), main (length n), upper (length n-1).
type tridiagonalOperator struct {
	lower, main, upper []float64
}

// NewTridiagonal builds a tridiagonal operator. len(main) = n,
// len(lower) = len(upper) = n-1.
func NewTridiagonal(lower, main, upper []float64) Operator {
	if len(lower) != len(main)-1 || len(upper) != len(main)-1 {
		panic("linop: tridiagonal diagonals have inconsistent lengths")
	}
	return &tridiagonalOperator{
		lower: append([]float64(nil), lower...),
		main:  append([]float64(nil), main...),
		upper: append([]float64(nil), upper...),
	}
}

func (o *tridiagonalOperator) InSize() int  { return len(o.main) }
func (o *tridiagonalOperator) OutSize() int { return len(o.main) }

func (o *tridiagonalOperator) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	n := len(o.main)
	lower, upper := o.lower, o.upper
	if trans {
		lower, upper = o.upper, o.lower
	}
	for i := 0; i < n; i++ {
		v := o.main[i] * x.AtVec(i)
		if i > 0 {
			v += lower[i-1] * x.AtVec(i-1)
		}
		if i < n-1 {
			v += upper[i] * x.AtVec(i+1)
		}
		dst.SetVec(i, v)
	}
}

func (o *tridiagonalOperator) Transpose() Operator {
	if o.Tags().Has(Symmetric) {
		return o
	}
	return &tridiagonalOperator{lower: o.upper, main: o.main, upper: o.lower}
}

func (o *tridiagonalOperator) AsMatrix() *mat.Dense {
	n := len(o.main)
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, o.main[i])
		if i > 0 {
			m.Set(i, i-1, o.lower[i-1])
		}
		if i < n-1 {
			m.Set(i, i+1, o.upper[i])
		}
	}
	return m
}

func (o *tridiagonalOperator) Tags() Tags {
	t := Tridiagonal
	symmetric := true
	for i := range o.lower {
		if o.lower[i] != o.upper[i] {
			symmetric = false
			break
		}
	}
	if symmetric {
		t |= Symmetric
	}
	return t
}
