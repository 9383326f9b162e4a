// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

// Tags is a bitset of structural hints on a linear operator or problem:
// tags describe properties of a particular value, not its static type. The
// tag set is always a conservative lower bound on the truth: a solver may
// treat an untagged operator as generic, but must never rely on a tag that
// is not set.
type Tags uint16

const (
	Symmetric Tags = 1 << iota
	PositiveSemidefinite
	NegativeSemidefinite
	Diagonal
	UnitDiagonal
	Tridiagonal
	LowerTriangular
	UpperTriangular
	Nonsingular
)

// Has reports whether all bits of want are set in t.
func (t Tags) Has(want Tags) bool { return t&want == want }

// With returns t with extra bits set.
func (t Tags) With(extra Tags) Tags { return t | extra }

// Without returns t with bits cleared.
func (t Tags) Without(remove Tags) Tags { return t &^ remove }

func (t Tags) String() string {
	names := []struct {
		bit  Tags
		name string
	}{
		{Symmetric, "symmetric"},
		{PositiveSemidefinite, "positive_semidefinite"},
		{NegativeSemidefinite, "negative_semidefinite"},
		{Diagonal, "diagonal"},
		{UnitDiagonal, "unit_diagonal"},
		{Tridiagonal, "tridiagonal"},
		{LowerTriangular, "lower_triangular"},
		{UpperTriangular, "upper_triangular"},
		{Nonsingular, "nonsingular"},
	}
	s := ""
	for _, n := range names {
		if t.Has(n.bit) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}
