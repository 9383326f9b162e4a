// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"math"
	"testing"

	"github.com/dicksontsai/nlcore/num"
	"github.com/dicksontsai/nlcore/valtree"
)

const testTol = 1e-6

// TestNewtonSqrtTwo checks Newton on x^2-2=0, x0=1, converges to sqrt(2)
// within 6 steps.
func TestNewtonSqrtTwo(t *testing.T) {
	f := func(y valtree.Tree, args any) (valtree.Tree, any) {
		x := y.Flatten().AtVec(0)
		return valtree.FromVector([]float64{x*x - 2}), nil
	}
	y0 := valtree.FromVector([]float64{1})
	sol, err := RootFind[newtonState](f, false, 0, Newton{}, y0, nil, num.DefaultOptions(), 6, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Result != valtree.Successful {
		t.Fatalf("expected Successful, got %v (steps=%d)", sol.Result, sol.Stats.NumSteps)
	}
	got := sol.Value.Flatten().AtVec(0)
	if math.Abs(got-math.Sqrt2) > testTol {
		t.Fatalf("got %v want %v", got, math.Sqrt2)
	}
	if sol.Stats.NumSteps > 6 {
		t.Fatalf("expected <=6 steps, got %d", sol.Stats.NumSteps)
	}
	if sol.Stats.NFeval == 0 || sol.Stats.NJeval == 0 {
		t.Fatalf("expected nonzero eval counters, got NFeval=%d NJeval=%d", sol.Stats.NFeval, sol.Stats.NJeval)
	}
}

// TestNewtonDivergesOnArctan checks that Newton on arctan(x)=0 from x0=2
// diverges.
func TestNewtonDivergesOnArctan(t *testing.T) {
	f := func(y valtree.Tree, args any) (valtree.Tree, any) {
		x := y.Flatten().AtVec(0)
		return valtree.FromVector([]float64{math.Atan(x)}), nil
	}
	y0 := valtree.FromVector([]float64{2})
	sol, _ := RootFind[newtonState](f, false, 0, Newton{}, y0, nil, num.DefaultOptions(), 50, nil, false)
	if sol.Result != valtree.NonlinearDivergence {
		t.Fatalf("expected NonlinearDivergence, got %v", sol.Result)
	}
	if sol.Stats.NumSteps >= 50 {
		t.Fatalf("expected to diverge before max_steps, got %d", sol.Stats.NumSteps)
	}
}

// TestFixedPointHeron checks that Heron's method x <- (x+2/x)/2 from x0=1
// converges to sqrt(2) within 10 steps.
func TestFixedPointHeron(t *testing.T) {
	f := func(y valtree.Tree, args any) (valtree.Tree, any) {
		x := y.Flatten().AtVec(0)
		return valtree.FromVector([]float64{0.5 * (x + 2/x)}), nil
	}
	y0 := valtree.FromVector([]float64{1})
	sol, err := FixedPoint[fixedPointState](f, false, 0, FixedPointIteration{}, y0, nil, num.DefaultOptions(), 10, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", sol.Result)
	}
	got := sol.Value.Flatten().AtVec(0)
	if math.Abs(got-math.Sqrt2) > testTol {
		t.Fatalf("got %v want %v", got, math.Sqrt2)
	}
	if sol.Stats.NumSteps > 10 {
		t.Fatalf("expected <=10 steps, got %d", sol.Stats.NumSteps)
	}
}

// TestLevenbergMarquardtRosenbrock checks that the Rosenbrock residual
// r(x,y)=(10(y-x^2), 1-x) from (-1.2,1) converges to (1,1) with
// f(value) < 1e-8.
func TestLevenbergMarquardtRosenbrock(t *testing.T) {
	residual := func(y valtree.Tree, args any) (valtree.Tree, any) {
		v := y.Flatten()
		x0, x1 := v.AtVec(0), v.AtVec(1)
		return valtree.FromVector([]float64{10 * (x1 - x0*x0), 1 - x0}), nil
	}
	problem := num.Problem{F: residual}
	y0 := valtree.FromVector([]float64{-1.2, 1})
	opts := num.DefaultOptions()
	opts.Atol, opts.Rtol = 1e-12, 1e-12
	sol, err := LeastSquares[lmState](problem, LevenbergMarquardt{}, y0, nil, opts, 200, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, _ := problem.Eval(sol.Value, nil)
	fval := 0.5 * valtree.Dot(r, r)
	if fval > 1e-8 {
		t.Fatalf("f(value)=%v too large; value=%v result=%v steps=%d", fval, sol.Value.Flatten(), sol.Result, sol.Stats.NumSteps)
	}
	if sol.Stats.NFeval == 0 || sol.Stats.NJeval == 0 {
		t.Fatalf("expected nonzero eval counters, got NFeval=%d NJeval=%d", sol.Stats.NFeval, sol.Stats.NJeval)
	}
}

// TestBisectionCosine checks that bisection on cos(x)-x over [0,1]
// converges to 0.7390851332 within atol=1e-9.
func TestBisectionCosine(t *testing.T) {
	f := func(y valtree.Tree, args any) (valtree.Tree, any) {
		x := y.Flatten().AtVec(0)
		return valtree.FromVector([]float64{math.Cos(x) - x}), nil
	}
	y0 := valtree.FromVector([]float64{0.5})
	opts := num.DefaultOptions()
	opts.Atol = 1e-9
	sol, err := RootFind[bisectionState](f, false, 0, Bisection{Lower: 0, Upper: 1}, y0, nil, opts, 100, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", sol.Result)
	}
	got := sol.Value.Flatten().AtVec(0)
	want := 0.7390851332
	if math.Abs(got-want) > 1e-8 {
		t.Fatalf("got %v want %v", got, want)
	}
}
