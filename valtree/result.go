// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package valtree

// Result is the closed set of terminal outcomes every solver in this module
// reports. It forms a lattice with Successful at the top; once a Solve
// downgrades away from Successful it is never upgraded again.
type Result int

const (
	// Successful means the solve converged within tolerances.
	Successful Result = iota
	// MaxStepsReached means the bounded loop was exhausted before
	// convergence.
	MaxStepsReached
	// LinearSingular means a linear solve inside a nonlinear step returned
	// NaN or rejected its operator's structure.
	LinearSingular
	// NonlinearDivergence means a divergence predicate fired, or a
	// step-size controller exhausted its own budget.
	NonlinearDivergence
)

func (r Result) String() string {
	switch r {
	case Successful:
		return "successful"
	case MaxStepsReached:
		return "max_steps_reached"
	case LinearSingular:
		return "linear_singular"
	case NonlinearDivergence:
		return "nonlinear_divergence"
	default:
		return "unknown_result"
	}
}

// rank orders results from best (0) to worst; higher rank wins in Downgrade.
func (r Result) rank() int {
	switch r {
	case Successful:
		return 0
	case MaxStepsReached:
		return 1
	case LinearSingular:
		return 2
	case NonlinearDivergence:
		return 3
	default:
		return 3
	}
}

// Downgrade returns the worse of r and other. It never moves a result back
// toward Successful: Downgrade(Successful, X) == X and
// Downgrade(X, Successful) == X for any X.
func (r Result) Downgrade(other Result) Result {
	if other.rank() > r.rank() {
		return other
	}
	return r
}

// Ok reports whether r is Successful.
func (r Result) Ok() bool { return r == Successful }

// Error implements the error interface so that a Result can be returned
// directly from APIs whose throw option is set.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	switch e.Result {
	case MaxStepsReached:
		return "nlcore: maximum number of steps reached without convergence"
	case LinearSingular:
		return "nlcore: linear solve was singular or produced NaN"
	case NonlinearDivergence:
		return "nlcore: nonlinear iteration diverged"
	default:
		return "nlcore: solve did not succeed"
	}
}

// AsError converts a non-Successful result into an *Error, or returns nil
// when r is Successful.
func (r Result) AsError() error {
	if r.Ok() {
		return nil
	}
	return &Error{Result: r}
}
