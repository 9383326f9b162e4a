// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import "github.com/dicksontsai/nlcore/valtree"

// Gradient is the plain steepest-descent rule: step = -stepSizeParam * g.
// The predicted reduction of a linear model is gᵀd = -stepSizeParam*||g||^2,
// the quadratic-model formula specialised to B=0.
type Gradient struct{}

type emptyState struct{}

func (Gradient) Init(Info) State { return emptyState{} }

func (Gradient) Step(info Info, stepSizeParam float64, state State) (valtree.Tree, float64, State, valtree.Result) {
	step := valtree.Scale(info.Vector, -stepSizeParam)
	predicted := -stepSizeParam * valtree.Dot(info.Vector, info.Vector)
	return step, predicted, state, valtree.Successful
}

// NormalizedGradient rescales the gradient to unit norm before scaling by
// stepSizeParam, so stepSizeParam reads directly as a step length rather
// than a gradient-magnitude-dependent learning rate.
type NormalizedGradient struct{}

func (NormalizedGradient) Init(Info) State { return emptyState{} }

func (NormalizedGradient) Step(info Info, stepSizeParam float64, state State) (valtree.Tree, float64, State, valtree.Result) {
	norm := valtree.Norm(info.Vector, valtree.L2)
	if norm == 0 {
		return valtree.Zero(info.Vector.Structure()), 0, state, valtree.Successful
	}
	dir := valtree.Scale(info.Vector, -1/norm)
	step := valtree.Scale(dir, stepSizeParam)
	predicted := stepSizeParam * valtree.Dot(dir, info.Vector)
	return step, predicted, state, valtree.Successful
}
