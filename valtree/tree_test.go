// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package valtree

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tol = 1e-13

func checkClose(t *testing.T, label string, got, want float64, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("%s: got %v, want %v (tol %v)", label, got, want, eps)
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	leaf1 := NewLeaf(mat.NewVecDense(2, []float64{1, 2}))
	leaf2 := NewLeaf(mat.NewVecDense(3, []float64{3, 4, 5}))
	tree := NewNode(leaf1, NewNode(leaf2))

	flat := tree.Flatten()
	want := []float64{1, 2, 3, 4, 5}
	for i, w := range want {
		checkClose(t, "flatten", flat.AtVec(i), w, tol)
	}

	back := Unflatten(tree.Structure(), flat)
	if !SameStructure(back.Structure(), tree.Structure()) {
		t.Fatalf("unflatten: structure mismatch")
	}
	reflat := back.Flatten()
	for i, w := range want {
		checkClose(t, "round-trip", reflat.AtVec(i), w, tol)
	}
}

func TestElementwiseOps(t *testing.T) {
	a := FromVector([]float64{1, 2, 3})
	b := FromVector([]float64{4, 5, 6})

	sum := Add(a, b)
	checkClose(t, "sum[0]", sum.Leaf().AtVec(0), 5, tol)
	checkClose(t, "sum[2]", sum.Leaf().AtVec(2), 9, tol)

	diff := Sub(b, a)
	checkClose(t, "diff[1]", diff.Leaf().AtVec(1), 3, tol)

	scaled := Scale(a, 2)
	checkClose(t, "scaled[2]", scaled.Leaf().AtVec(2), 6, tol)

	axpy := AXPY(-1, a, b) // b - a
	checkClose(t, "axpy[0]", axpy.Leaf().AtVec(0), 3, tol)

	checkClose(t, "dot", Dot(a, b), 1*4+2*5+3*6, tol)
}

func TestNormKinds(t *testing.T) {
	v := FromVector([]float64{3, 4}) // classic 3-4-5 triangle
	checkClose(t, "L2", Norm(v, L2), 5, tol)
	checkClose(t, "LInf", Norm(v, LInf), 4, tol)
	checkClose(t, "RMS", Norm(v, RMS), math.Sqrt((9.0+16.0)/2.0), tol)
}

func TestScaledNorm(t *testing.T) {
	delta := FromVector([]float64{0.1, 0.2})
	y := FromVector([]float64{1, 2})
	got := ScaledNorm(delta, y, 1e-8, 1e-4, RMS)
	// scale_i = atol + rtol*|y_i|; both entries scale to ~1e-4*y_i
	s0 := 1e-8 + 1e-4*1
	s1 := 1e-8 + 1e-4*2
	want := math.Sqrt(((0.1/s0)*(0.1/s0)+(0.2/s1)*(0.2/s1))/2.0)
	checkClose(t, "scaled norm", got, want, 1e-6)
}

func TestAnyNaN(t *testing.T) {
	ok := FromVector([]float64{1, 2, 3})
	if AnyNaN(ok) {
		t.Fatalf("expected no NaN")
	}
	bad := FromVector([]float64{1, math.NaN(), 3})
	if !AnyNaN(bad) {
		t.Fatalf("expected NaN to be detected")
	}
}

func TestResultDowngradeMonotonic(t *testing.T) {
	r := Successful
	r = r.Downgrade(Successful)
	if r != Successful {
		t.Fatalf("downgrading by Successful must be a no-op")
	}
	r = r.Downgrade(MaxStepsReached)
	if r != MaxStepsReached {
		t.Fatalf("expected MaxStepsReached, got %v", r)
	}
	r = r.Downgrade(Successful) // must not upgrade back
	if r != MaxStepsReached {
		t.Fatalf("result upgraded back to Successful: %v", r)
	}
	r = r.Downgrade(NonlinearDivergence)
	if r != NonlinearDivergence {
		t.Fatalf("expected NonlinearDivergence, got %v", r)
	}
	r = r.Downgrade(LinearSingular) // must stay terminal at the worse value
	if r != NonlinearDivergence {
		t.Fatalf("nonlinear divergence must remain terminal, got %v", r)
	}
}
