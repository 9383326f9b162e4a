// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import (
	"testing"

	"github.com/dicksontsai/nlcore/valtree"
)

// halvingSolver halves y each step forever, never terminating on its own;
// it exists only to exercise the driver's max_steps downgrade: reaching
// max_steps_reached must leave num_steps==max_steps.
type halvingState struct{}

type halvingSolver struct{}

func (halvingSolver) Init(Problem, valtree.Tree, any, Options) halvingState { return halvingState{} }

func (halvingSolver) Step(p Problem, y valtree.Tree, args any, opts Options, s halvingState) (valtree.Tree, halvingState, any, valtree.Result) {
	yNew := valtree.Scale(y, 0.5)
	_, aux := p.Eval(yNew, args)
	return yNew, s, aux, valtree.Successful
}

func (halvingSolver) Terminate(Problem, valtree.Tree, any, Options, halvingState) (bool, valtree.Result) {
	return false, valtree.Successful
}

func TestDriverMaxStepsReached(t *testing.T) {
	prob := Problem{F: func(y valtree.Tree, args any) (valtree.Tree, any) { return y, nil }}
	y0 := valtree.FromVector([]float64{8})
	sol := Solve[halvingState](prob, halvingSolver{}, y0, nil, DefaultOptions(), 5)
	if sol.Result != valtree.MaxStepsReached {
		t.Fatalf("expected MaxStepsReached, got %v", sol.Result)
	}
	if sol.Stats.NumSteps != sol.Stats.MaxSteps {
		t.Fatalf("invariant violated: num_steps=%d max_steps=%d", sol.Stats.NumSteps, sol.Stats.MaxSteps)
	}
	got := sol.Value.Flatten().AtVec(0)
	want := 8.0 / 32.0 // halved 5 times
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
	if sol.Stats.NFeval != 6 { // one upfront eval plus one per step
		t.Fatalf("expected NFeval=6, got %d", sol.Stats.NFeval)
	}
}

// immediateStopSolver terminates before its first step, exercising the
// "termination checked before each step" ordering.
type immediateStopSolver struct{}

func (immediateStopSolver) Init(Problem, valtree.Tree, any, Options) halvingState {
	return halvingState{}
}
func (immediateStopSolver) Step(p Problem, y valtree.Tree, args any, opts Options, s halvingState) (valtree.Tree, halvingState, any, valtree.Result) {
	panic("Step should never be called when Terminate stops immediately")
}
func (immediateStopSolver) Terminate(Problem, valtree.Tree, any, Options, halvingState) (bool, valtree.Result) {
	return true, valtree.Successful
}

func TestDriverChecksTerminationBeforeStep(t *testing.T) {
	prob := Problem{F: func(y valtree.Tree, args any) (valtree.Tree, any) { return y, nil }}
	y0 := valtree.FromVector([]float64{1})
	sol := Solve[halvingState](prob, immediateStopSolver{}, y0, nil, DefaultOptions(), 10)
	if sol.Result != valtree.Successful {
		t.Fatalf("expected Successful, got %v", sol.Result)
	}
	if sol.Stats.NumSteps != 0 {
		t.Fatalf("expected zero steps, got %d", sol.Stats.NumSteps)
	}
}

func TestFixedPointToRootSubtractsY(t *testing.T) {
	fp := Problem{F: func(y valtree.Tree, args any) (valtree.Tree, any) {
		v := y.Flatten().AtVec(0)
		return valtree.FromVector([]float64{0.5 * (v + 2/v)}), nil
	}}
	root := FixedPointToRoot(fp)
	y := valtree.FromVector([]float64{1.4142135623730951})
	out, _ := root.Eval(y, nil)
	g := out.Flatten().AtVec(0)
	if g < -1e-9 || g > 1e-9 {
		t.Fatalf("expected near-zero residual at the fixed point, got %v", g)
	}
}

func TestLeastSquaresToMiniseIsSumOfSquares(t *testing.T) {
	ls := Problem{F: func(y valtree.Tree, args any) (valtree.Tree, any) {
		return valtree.FromVector([]float64{3, 4}), nil
	}}
	mn := LeastSquaresToMinimise(ls)
	out, _ := mn.Eval(valtree.FromVector([]float64{0}), nil)
	got := out.Flatten().AtVec(0)
	if got != 12.5 { // 0.5*(9+16)
		t.Fatalf("got %v want 12.5", got)
	}
}
