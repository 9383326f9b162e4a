// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import "github.com/dicksontsai/nlcore/valtree"

// FixedPointToRoot converts a fixed-point problem f(y)=y into the
// equivalent root-finding problem g(y)=f(y)-y, used by the top-level
// fixed_point entry whenever the caller hands it a root-native solver.
func FixedPointToRoot(fp Problem) Problem {
	return Problem{
		HasAux: fp.HasAux,
		Tags:   fp.Tags,
		F: func(y valtree.Tree, args any) (valtree.Tree, any) {
			out, aux := fp.F(y, args)
			return valtree.Sub(out, y), aux
		},
	}
}

// RootToFixedPoint is the inverse of FixedPointToRoot: given a root
// problem g(y), it returns the fixed-point problem f(y)=g(y)+y. No solver
// or entry in this module calls it.
func RootToFixedPoint(root Problem) Problem {
	return Problem{
		HasAux: root.HasAux,
		Tags:   root.Tags,
		F: func(y valtree.Tree, args any) (valtree.Tree, any) {
			out, aux := root.F(y, args)
			return valtree.Add(out, y), aux
		},
	}
}

// LeastSquaresToMinimise converts a least-squares residual problem r(y)
// into the minimisation problem f(y) = 1/2 ||r(y)||^2, used whenever the
// caller hands least_squares a minimise-native solver (gradient descent,
// NonlinearCG).
func LeastSquaresToMinimise(ls Problem) Problem {
	return Problem{
		HasAux: ls.HasAux,
		Tags:   ls.Tags,
		F: func(y valtree.Tree, args any) (valtree.Tree, any) {
			r, aux := ls.F(y, args)
			ss := 0.5 * valtree.Dot(r, r)
			return valtree.FromVector([]float64{ss}), aux
		},
	}
}
