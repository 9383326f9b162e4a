// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

const tol = 1e-9

func TestQRRoundTrip(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 1, 1, 3})
	op := linop.NewMatrix(a, 0)
	v := mat.NewVecDense(2, []float64{1, 2})
	x, result, _ := Solve(QR{}, op, v, Options{})
	if result != valtree.Successful {
		t.Fatalf("expected successful, got %v", result)
	}
	back := linop.MV(op, x)
	for i := 0; i < 2; i++ {
		if math.Abs(back.AtVec(i)-v.AtVec(i)) > tol {
			t.Fatalf("A*solve(A,v) != v at %d: got %v want %v", i, back.AtVec(i), v.AtVec(i))
		}
	}
}

func TestDiagonalUnitIsIdentity(t *testing.T) {
	op := linop.NewDiagonal([]float64{1, 1, 1})
	v := mat.NewVecDense(3, []float64{3, -2, 5})
	x, result, _ := Solve(Diagonal{}, op, v, Options{})
	if result != valtree.Successful {
		t.Fatalf("expected successful, got %v", result)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(x.AtVec(i)-v.AtVec(i)) > tol {
			t.Fatalf("unit-diagonal solve changed entry %d: got %v want %v", i, x.AtVec(i), v.AtVec(i))
		}
	}
}

func TestTridiagonalUnitIsIdentity(t *testing.T) {
	op := linop.NewTridiagonal([]float64{0, 0}, []float64{1, 1, 1}, []float64{0, 0})
	v := mat.NewVecDense(3, []float64{1, 2, 3})
	x, result, _ := Solve(Tridiagonal{}, op, v, Options{})
	if result != valtree.Successful {
		t.Fatalf("expected successful, got %v", result)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(x.AtVec(i)-v.AtVec(i)) > tol {
			t.Fatalf("identity tridiagonal solve changed entry %d", i)
		}
	}
}

func TestAutoSingularReturnsMinimumNorm(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	op := linop.NewMatrix(a, linop.Symmetric|linop.PositiveSemidefinite)
	v := mat.NewVecDense(2, []float64{1, 1})
	x, result, _ := SolveAuto(op, v, Options{})
	if result != valtree.Successful {
		t.Fatalf("expected successful (pseudoinverse) result, got %v", result)
	}
	if math.Abs(x.AtVec(0)-0.5) > 1e-6 || math.Abs(x.AtVec(1)-0.5) > 1e-6 {
		t.Fatalf("expected minimum-norm solution (0.5,0.5), got (%v,%v)", x.AtVec(0), x.AtVec(1))
	}
}

func TestCholeskyRejectsAsymmetric(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for asymmetric Cholesky operator")
		}
	}()
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	op := linop.NewMatrix(a, 0)
	Cholesky{}.Init(op, Options{})
}
