// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import "github.com/dicksontsai/nlcore/valtree"

// BetaFormula selects the NonlinearCG coefficient-update rule.
type BetaFormula int

const (
	HestenesStiefel BetaFormula = iota
	FletcherReeves
	PolakRibiere
	DaiYuan
)

// NonlinearCG maintains the previous gradient and direction and computes a
// new conjugate direction d = -g + beta*d_prev each step, resetting to
// steepest descent whenever beta is non-finite or <d,g> >= 0.
type NonlinearCG struct {
	Formula BetaFormula
}

type nonlinearCGState struct {
	gPrev valtree.Tree
	dPrev valtree.Tree
	have  bool
}

func (NonlinearCG) Init(info Info) State {
	return nonlinearCGState{}
}

func (n NonlinearCG) Step(info Info, stepSizeParam float64, state State) (valtree.Tree, float64, State, valtree.Result) {
	s := state.(nonlinearCGState)
	g := info.Vector

	var d valtree.Tree
	if !s.have {
		d = valtree.Scale(g, -1)
	} else {
		beta := n.beta(s.gPrev, g, s.dPrev)
		d = valtree.Add(valtree.Scale(g, -1), valtree.Scale(s.dPrev, beta))
		if !finiteTree(d) || valtree.Dot(d, g) >= 0 {
			d = valtree.Scale(g, -1) // reset to steepest descent
		}
	}

	step := valtree.Scale(d, stepSizeParam)
	predicted := stepSizeParam * valtree.Dot(d, g)
	newState := nonlinearCGState{gPrev: g, dPrev: d, have: true}
	return step, predicted, newState, valtree.Successful
}

func (n NonlinearCG) beta(gPrev, g, dPrev valtree.Tree) float64 {
	switch n.Formula {
	case FletcherReeves:
		denom := valtree.Dot(gPrev, gPrev)
		if denom == 0 {
			return 0
		}
		return valtree.Dot(g, g) / denom
	case PolakRibiere:
		denom := valtree.Dot(gPrev, gPrev)
		if denom == 0 {
			return 0
		}
		diff := valtree.Sub(g, gPrev)
		return valtree.Dot(g, diff) / denom
	case DaiYuan:
		diff := valtree.Sub(g, gPrev)
		denom := valtree.Dot(dPrev, diff)
		if denom == 0 {
			return 0
		}
		return valtree.Dot(g, g) / denom
	default: // HestenesStiefel
		diff := valtree.Sub(g, gPrev)
		denom := valtree.Dot(dPrev, diff)
		if denom == 0 {
			return 0
		}
		return valtree.Dot(g, diff) / denom
	}
}

func finiteTree(t valtree.Tree) bool {
	return !valtree.AnyNaN(t) && !valtree.AnyInf(t)
}
