// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linop implements a linear-operator facade: a polymorphic handle
// over an explicit matrix, a lazily-linearised Jacobian, and identity,
// diagonal and tridiagonal structure. The contract mirrors gonum's
// linsolve.MulVecToer (matrix-vector multiplication by reverse
// communication) enriched with the structure-tag set a solver-selection
// dispatcher needs.
package linop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Operator is the polymorphic linear-operator handle every linear solver
// and descent direction in this module is built over. Implementations must
// satisfy: mv∘transpose agrees with the matrix-vector product of the
// transpose, for every x.
type Operator interface {
	// InSize returns the dimension of the operator's domain.
	InSize() int
	// OutSize returns the dimension of the operator's codomain.
	OutSize() int
	// MulVecTo computes A*x (trans==false) or Aᵀ*x (trans==true) into dst.
	MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector)
	// Transpose returns a handle to the transposed operator. Implementors
	// should return the receiver unchanged when Tags().Has(Symmetric),
	// since a symmetric operator equals its own transpose.
	Transpose() Operator
	// AsMatrix materialises the operator as a dense matrix. May be
	// expensive for lazy (Jacobian) operators.
	AsMatrix() *mat.Dense
	// Tags reports the structural hints known to be true of this operator.
	Tags() Tags
}

// MV is a convenience wrapper around MulVecTo that allocates its result.
func MV(op Operator, x mat.Vector) *mat.VecDense {
	dst := mat.NewVecDense(op.OutSize(), nil)
	op.MulVecTo(dst, false, x)
	return dst
}

// MVTrans is the transposed convenience wrapper.
func MVTrans(op Operator, x mat.Vector) *mat.VecDense {
	dst := mat.NewVecDense(op.InSize(), nil)
	op.MulVecTo(dst, true, x)
	return dst
}

// matrixOperator is the explicit-matrix implementation of Operator.
type matrixOperator struct {
	a         *mat.Dense
	tags      Tags
	transpose bool // true when this handle represents Aᵀ of some other a
}

// NewMatrix wraps an explicit dense matrix as an Operator. Extra structural
// tags the caller already knows to be true (e.g. Symmetric) may be passed;
// tags are never inferred from the matrix's numeric content.
func NewMatrix(a *mat.Dense, tags Tags) Operator {
	return &matrixOperator{a: a, tags: tags}
}

func (o *matrixOperator) InSize() int {
	_, c := o.a.Dims()
	if o.transpose {
		r, _ := o.a.Dims()
		return r
	}
	return c
}

func (o *matrixOperator) OutSize() int {
	r, _ := o.a.Dims()
	if o.transpose {
		_, c := o.a.Dims()
		return c
	}
	return r
}

func (o *matrixOperator) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	useTrans := trans != o.transpose
	if useTrans {
		dst.MulVec(o.a.T(), x)
	} else {
		dst.MulVec(o.a, x)
	}
}

func (o *matrixOperator) Transpose() Operator {
	if o.tags.Has(Symmetric) {
		return o
	}
	tags := o.tags.Without(LowerTriangular | UpperTriangular)
	if o.tags.Has(LowerTriangular) {
		tags |= UpperTriangular
	}
	if o.tags.Has(UpperTriangular) {
		tags |= LowerTriangular
	}
	return &matrixOperator{a: o.a, tags: tags, transpose: !o.transpose}
}

func (o *matrixOperator) AsMatrix() *mat.Dense {
	if !o.transpose {
		return o.a
	}
	var out mat.Dense
	out.CloneFrom(o.a.T())
	return &out
}

func (o *matrixOperator) Tags() Tags { return o.tags }

// identityOperator is the n-dimensional identity.
type identityOperator struct{ n int }

// NewIdentity returns the n-dimensional identity operator.
func NewIdentity(n int) Operator { return identityOperator{n: n} }

func (o identityOperator) InSize() int  { return o.n }
func (o identityOperator) OutSize() int { return o.n }
func (o identityOperator) MulVecTo(dst *mat.VecDense, _ bool, x mat.Vector) {
	dst.CopyVec(x)
}
func (o identityOperator) Transpose() Operator { return o }
func (o identityOperator) AsMatrix() *mat.Dense {
	m := mat.NewDense(o.n, o.n, nil)
	for i := 0; i < o.n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
func (o identityOperator) Tags() Tags {
	return Symmetric | PositiveSemidefinite | Diagonal | UnitDiagonal | Nonsingular
}

func requireSquare(name string, op Operator) {
	if op.InSize() != op.OutSize() {
		panic(fmt.Sprintf("linop: %s requires a square operator, got %dx%d", name, op.OutSize(), op.InSize()))
	}
}
