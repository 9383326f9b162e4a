// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import (
	"gonum.org/v1/gonum/mat"

	"github.com/dicksontsai/nlcore/linop"
	"github.com/dicksontsai/nlcore/valtree"
)

// Auto is the dispatching Solver: it inspects op's dimensions and
// structure tags and delegates to the concrete solver best suited to that
// combination. Dispatch is computed once, at Init, and the chosen
// concrete State thereafter drives Compute/Transpose directly — i.e.
// Auto.Init(A).Compute agrees bit-for-bit with the concrete solver it
// selected, since Auto never reinterprets the result.
type Auto struct{}

func (Auto) Init(op linop.Operator, opts Options) State {
	tags := op.Tags()
	square := op.InSize() == op.OutSize()

	if !square {
		// non-square -> SVD, not yet a rank-revealing QR.
		return SVD{}.Init(op, opts)
	}
	if tags.Has(linop.Tridiagonal) {
		return Tridiagonal{}.Init(op, opts)
	}
	if tags.Has(linop.Diagonal) {
		return Diagonal{}.Init(op, opts)
	}
	if tags.Has(linop.Symmetric) {
		if tags.Has(linop.Nonsingular) && (tags.Has(linop.PositiveSemidefinite) || tags.Has(linop.NegativeSemidefinite)) {
			return Cholesky{}.Init(op, opts)
		}
		// symmetric, possibly singular (or definiteness not proven) -> CG
		return CG{}.Init(op, opts)
	}
	if tags.Has(linop.Nonsingular) {
		return LU{}.Init(op, opts)
	}
	// square, asymmetric, possibly singular -> SVD
	return SVD{}.Init(op, opts)
}

// SolveAuto is a one-shot convenience: dispatch via Auto, then solve.
func SolveAuto(op linop.Operator, b *mat.VecDense, opts Options) (*mat.VecDense, valtree.Result, Stats) {
	return Auto{}.Init(op, opts).Compute(b, opts)
}
