// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

func TestNewtonSolvesLinearSystem(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 2})
	op := linop.NewMatrix(a, linop.Symmetric|linop.PositiveSemidefinite|linop.Nonsingular)
	info := Info{Vector: valtree.FromVector([]float64{4, 6}), Operator: op}
	step, _, _, result := Newton{}.Step(info, 1, Newton{}.Init(info))
	if result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", result)
	}
	got := step.Flatten()
	if math.Abs(got.AtVec(0)+2) > 1e-9 || math.Abs(got.AtVec(1)+3) > 1e-9 {
		t.Fatalf("got %v, %v want -2,-3", got.AtVec(0), got.AtVec(1))
	}
}

func TestNonlinearCGResetsOnAscent(t *testing.T) {
	cg := NonlinearCG{Formula: FletcherReeves}
	info1 := Info{Vector: valtree.FromVector([]float64{1, 0})}
	s0 := cg.Init(info1)
	_, _, s1, _ := cg.Step(info1, 1, s0)

	// a second gradient with the opposite sign should still produce a
	// descent direction (either by beta or by reset).
	info2 := Info{Vector: valtree.FromVector([]float64{-1, 0})}
	d, _, _, result := cg.Step(info2, 1, s1)
	if result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", result)
	}
	if valtree.Dot(d, info2.Vector) >= 0 {
		t.Fatalf("expected a descent direction, got <d,g>=%v", valtree.Dot(d, info2.Vector))
	}
}

func TestIterativeDualDirectZeroDeltaIsZeroStep(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	op := linop.NewMatrix(a, linop.Symmetric|linop.Nonsingular)
	info := Info{Vector: valtree.FromVector([]float64{1, 1}), Operator: op}
	step, _, _, result := IterativeDualDirect{}.Step(info, 0, emptyState{})
	if result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", result)
	}
	if valtree.Norm(step, valtree.L2) != 0 {
		t.Fatalf("expected zero step at delta=0, got norm %v", valtree.Norm(step, valtree.L2))
	}
}

func TestIterativeDualIndirectAcceptsSmallNewtonStep(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 0, 0, 4})
	op := linop.NewMatrix(a, linop.Symmetric|linop.PositiveSemidefinite|linop.Nonsingular)
	info := Info{Vector: valtree.FromVector([]float64{4, 4}), Operator: op}
	// unregularised Newton step is (1,1), norm sqrt(2) < delta=10
	step, _, _, result := IterativeDualIndirect{}.Step(info, 10, emptyState{})
	if result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", result)
	}
	got := step.Flatten()
	if math.Abs(got.AtVec(0)+1) > 1e-9 || math.Abs(got.AtVec(1)+1) > 1e-9 {
		t.Fatalf("got %v, %v want -1,-1", got.AtVec(0), got.AtVec(1))
	}
}
