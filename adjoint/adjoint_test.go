// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

func TestImplicitLinearizeAtSolvesTransposedSystem(t *testing.T) {
	// rewriteFn's Jacobian is a fixed symmetric matrix, so solving the
	// transposed system equals solving the original.
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 3})
	im := Implicit{
		Jacobian: func(y valtree.Tree, args any) linop.Operator {
			return linop.NewMatrix(a, linop.Symmetric|linop.PositiveSemidefinite|linop.Nonsingular)
		},
	}
	cotangentOut := valtree.FromVector([]float64{4, 9})
	cotangentIn, result := im.LinearizeAt(valtree.FromVector([]float64{0, 0}), nil, nil, cotangentOut)
	if result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", result)
	}
	got := cotangentIn.Flatten()
	if math.Abs(got.AtVec(0)-2) > 1e-9 || math.Abs(got.AtVec(1)-3) > 1e-9 {
		t.Fatalf("got %v,%v want 2,3", got.AtVec(0), got.AtVec(1))
	}
}

func TestRecursiveCheckpointPassesCotangentThrough(t *testing.T) {
	rc := RecursiveCheckpoint{CheckpointBudget: 4}
	cotangentOut := valtree.FromVector([]float64{1, 2, 3})
	cotangentIn, result := rc.LinearizeAt(valtree.Tree{}, nil, nil, cotangentOut)
	if result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", result)
	}
	if valtree.Norm(valtree.Sub(cotangentIn, cotangentOut), valtree.L2) != 0 {
		t.Fatal("expected cotangent to pass through unchanged")
	}
}
