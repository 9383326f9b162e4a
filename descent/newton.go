// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import (
	"github.com/dicksontsai/nlcore/linsolve"
	"github.com/dicksontsai/nlcore/valtree"
)

// Newton solves Operator*p = Vector via the configured linear solver and
// returns step = -stepSizeParam*p; stepSizeParam=1 reproduces the plain
// Newton update y <- y - p. A linear-solve failure downgrades the result
// to LinearSingular, which the owning solver's driver loop then treats as
// terminal on its next termination check.
type Newton struct{}

type newtonState struct{}

func (Newton) Init(Info) State { return newtonState{} }

func (Newton) Step(info Info, stepSizeParam float64, state State) (valtree.Tree, float64, State, valtree.Result) {
	p, result := solveDirection(info)
	if result != valtree.Successful {
		return valtree.Zero(info.Vector.Structure()), 0, state, result
	}
	step := valtree.Scale(p, -stepSizeParam)
	predicted := -stepSizeParam * valtree.Dot(info.Vector, p)
	return step, predicted, state, valtree.Successful
}

// NormalizedNewton rescales the Newton direction to unit norm before
// applying stepSizeParam — useful when stepSizeParam is itself a trust
// radius rather than a dimensionless multiplier.
type NormalizedNewton struct{}

func (NormalizedNewton) Init(Info) State { return newtonState{} }

func (NormalizedNewton) Step(info Info, stepSizeParam float64, state State) (valtree.Tree, float64, State, valtree.Result) {
	p, result := solveDirection(info)
	if result != valtree.Successful {
		return valtree.Zero(info.Vector.Structure()), 0, state, result
	}
	norm := valtree.Norm(p, valtree.L2)
	if norm == 0 {
		return valtree.Zero(info.Vector.Structure()), 0, state, valtree.Successful
	}
	dir := valtree.Scale(p, -1/norm)
	step := valtree.Scale(dir, stepSizeParam)
	predicted := stepSizeParam * valtree.Dot(dir, info.Vector)
	return step, predicted, state, valtree.Successful
}

// solveDirection solves Operator*p = Vector, flattening/unflattening
// around linsolve's mat.VecDense-typed facade.
func solveDirection(info Info) (valtree.Tree, valtree.Result) {
	b := info.Vector.Flatten()
	x, result, _ := linsolve.Solve(info.solver(), info.Operator, b, info.LinOpts)
	if result != valtree.Successful {
		return valtree.Zero(info.Vector.Structure()), result
	}
	return valtree.Unflatten(info.Vector.Structure(), x), valtree.Successful
}
