// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stepctrl

import "testing"

func TestClassicalTrustRegionExpandsOnGoodStep(t *testing.T) {
	c := DefaultClassicalTrustRegion()
	s0 := c.Init(1.0)
	// rho_pred = -10 (predicted decrease); f_new decreased by the full
	// predicted amount -> good.
	decision, _ := c.Evaluate(0, -10, -10, s0)
	if !decision.Accept {
		t.Fatal("expected acceptance on a good step")
	}
	if decision.NextSize != 3.5 {
		t.Fatalf("expected delta expanded to 3.5, got %v", decision.NextSize)
	}
}

func TestClassicalTrustRegionContractsOnBadStep(t *testing.T) {
	c := DefaultClassicalTrustRegion()
	s0 := c.Init(1.0)
	// f actually increased -> bad.
	decision, _ := c.Evaluate(0, 5, -10, s0)
	if decision.Accept {
		t.Fatal("expected rejection on a bad step")
	}
	if decision.NextSize != 0.25 {
		t.Fatalf("expected delta contracted to 0.25, got %v", decision.NextSize)
	}
}

func TestBacktrackingArmijoRequiresTwoEvaluations(t *testing.T) {
	a := DefaultBacktrackingArmijo()
	s0 := a.Init(1.0)
	// first evaluation would satisfy Armijo but must still be rejected
	// (bootstrap evaluation).
	decision, s1 := a.Evaluate(0, -100, -1, s0)
	if decision.Accept {
		t.Fatal("expected the first evaluation never to accept")
	}
	decision2, _ := a.Evaluate(0, -100, -1, s1)
	if !decision2.Accept {
		t.Fatal("expected the second evaluation to accept a genuinely good step")
	}
}

func TestBacktrackingArmijoClipsAscentPredictedReduction(t *testing.T) {
	a := DefaultBacktrackingArmijo()
	s0 := a.Init(1.0)
	_, s1 := a.Evaluate(0, 0, 5, s0) // positive rho_pred (ascent direction)
	decision, _ := a.Evaluate(0, 0, 5, s1)
	// clipped predictedReduction is 0, so acceptance requires fNew<=fPrev,
	// which holds here (0<=0); the guard only prevents a positive
	// rho_pred from loosening the test, it does not itself reject.
	if !decision.Accept {
		t.Fatal("expected acceptance when fNew does not exceed fPrev even after clipping")
	}
}
