// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package valtree implements the value-tree abstraction that carries every
// user quantity (y, gradients, residuals, diffs) through the iteration
// driver, plus the norm primitives and the Result outcome lattice used
// uniformly by every solver.
//
// A Tree is a tagged variant: either a Leaf wrapping a flat vector, or a
// Node holding child Trees. Elementwise operations require both operands to
// share the same Structure; a mismatch is a programmer error and panics.
package valtree

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Structure describes the shape of a Tree without data. Two Trees built
// from an identical Structure are guaranteed Flatten/Unflatten inverses.
type Structure struct {
	Leaf bool
	Size int // leaf length; meaningless when !Leaf
	Kids []Structure
}

// Tree is an opaque structured container of numeric arrays. The zero Tree
// is not valid; construct with NewLeaf or NewNode.
type Tree struct {
	leaf *mat.VecDense
	kids []Tree
}

// NewLeaf wraps a flat vector as a leaf Tree.
func NewLeaf(v *mat.VecDense) Tree { return Tree{leaf: v} }

// NewNode builds a Tree from child Trees.
func NewNode(kids ...Tree) Tree { return Tree{kids: append([]Tree(nil), kids...)} }

// IsLeaf reports whether t is a Leaf.
func (t Tree) IsLeaf() bool { return t.leaf != nil }

// Leaf returns the underlying vector of a leaf Tree. Panics if t is a Node.
func (t Tree) Leaf() *mat.VecDense {
	if t.leaf == nil {
		panic("valtree: Leaf called on a Node tree")
	}
	return t.leaf
}

// Kids returns the children of a Node tree. Panics if t is a Leaf.
func (t Tree) Kids() []Tree {
	if t.leaf != nil {
		panic("valtree: Kids called on a Leaf tree")
	}
	return t.kids
}

// Structure reports the shape descriptor of t.
func (t Tree) Structure() Structure {
	if t.IsLeaf() {
		return Structure{Leaf: true, Size: t.leaf.Len()}
	}
	kids := make([]Structure, len(t.kids))
	for i, k := range t.kids {
		kids[i] = k.Structure()
	}
	return Structure{Kids: kids}
}

// SameStructure reports whether a and b describe identical shapes; used by
// the elementwise operations below to reject operands of mismatched
// structure.
func SameStructure(a, b Structure) bool {
	if a.Leaf != b.Leaf {
		return false
	}
	if a.Leaf {
		return a.Size == b.Size
	}
	if len(a.Kids) != len(b.Kids) {
		return false
	}
	for i := range a.Kids {
		if !SameStructure(a.Kids[i], b.Kids[i]) {
			return false
		}
	}
	return true
}

// Zero builds a Tree of Structure s filled with zeros.
func Zero(s Structure) Tree {
	if s.Leaf {
		return NewLeaf(mat.NewVecDense(s.Size, nil))
	}
	kids := make([]Tree, len(s.Kids))
	for i, k := range s.Kids {
		kids[i] = Zero(k)
	}
	return NewNode(kids...)
}

// FromVector wraps a plain vector as a single-leaf Tree — the common case
// for root-finding/fixed-point/least-squares/minimisation over a flat
// parameter vector.
func FromVector(v []float64) Tree {
	return NewLeaf(mat.NewVecDense(len(v), append([]float64(nil), v...)))
}

// Flatten concatenates every leaf of t into one vector, in tree order. It is
// the inverse of Unflatten given t.Structure().
func (t Tree) Flatten() *mat.VecDense {
	var buf []float64
	t.flattenInto(&buf)
	return mat.NewVecDense(len(buf), buf)
}

func (t Tree) flattenInto(buf *[]float64) {
	if t.IsLeaf() {
		*buf = append(*buf, t.leaf.RawVector().Data...)
		return
	}
	for _, k := range t.kids {
		k.flattenInto(buf)
	}
}

// Unflatten rebuilds a Tree of Structure s from a flat vector produced by a
// prior Flatten of a Tree with the same Structure.
func Unflatten(s Structure, v mat.Vector) Tree {
	idx := 0
	return unflatten(s, v, &idx)
}

func unflatten(s Structure, v mat.Vector, idx *int) Tree {
	if s.Leaf {
		out := mat.NewVecDense(s.Size, nil)
		for i := 0; i < s.Size; i++ {
			out.SetVec(i, v.AtVec(*idx))
			*idx++
		}
		return NewLeaf(out)
	}
	kids := make([]Tree, len(s.Kids))
	for i, k := range s.Kids {
		kids[i] = unflatten(k, v, idx)
	}
	return NewNode(kids...)
}

func requireSameStructure(op string, a, b Tree) {
	if !SameStructure(a.Structure(), b.Structure()) {
		panic(fmt.Sprintf("valtree: %s: mismatched tree structure", op))
	}
}

// Map applies f elementwise to a single Tree, returning a new Tree of the
// same structure.
func Map(t Tree, f func(float64) float64) Tree {
	if t.IsLeaf() {
		raw := t.leaf.RawVector().Data
		out := make([]float64, len(raw))
		for i, x := range raw {
			out[i] = f(x)
		}
		return NewLeaf(mat.NewVecDense(len(out), out))
	}
	kids := make([]Tree, len(t.kids))
	for i, k := range t.kids {
		kids[i] = Map(k, f)
	}
	return NewNode(kids...)
}

// Map2 applies f elementwise across two Trees of identical structure.
func Map2(a, b Tree, f func(x, y float64) float64) Tree {
	requireSameStructure("Map2", a, b)
	if a.IsLeaf() {
		ra, rb := a.leaf.RawVector().Data, b.leaf.RawVector().Data
		out := make([]float64, len(ra))
		for i := range ra {
			out[i] = f(ra[i], rb[i])
		}
		return NewLeaf(mat.NewVecDense(len(out), out))
	}
	kids := make([]Tree, len(a.kids))
	for i := range a.kids {
		kids[i] = Map2(a.kids[i], b.kids[i], f)
	}
	return NewNode(kids...)
}

// Add returns a+b elementwise.
func Add(a, b Tree) Tree { return Map2(a, b, func(x, y float64) float64 { return x + y }) }

// Sub returns a-b elementwise.
func Sub(a, b Tree) Tree { return Map2(a, b, func(x, y float64) float64 { return x - y }) }

// Scale returns a*c, a zero-copy scalar broadcast over every leaf.
func Scale(a Tree, c float64) Tree { return Map(a, func(x float64) float64 { return c * x }) }

// AXPY returns y + a*x elementwise (the fused update used by
// stepctrl.AlongDirection).
func AXPY(a float64, x, y Tree) Tree {
	return Map2(x, y, func(xi, yi float64) float64 { return yi + a*xi })
}

// Dot returns the flattened inner product of a and b.
func Dot(a, b Tree) float64 {
	requireSameStructure("Dot", a, b)
	return mat.Dot(a.Flatten(), b.Flatten())
}

// NormKind selects the norm used by Norm and by termination predicates.
type NormKind int

const (
	// RMS is the root-mean-square norm, the default for diffsize-style
	// convergence checks.
	RMS NormKind = iota
	// L2 is the ordinary Euclidean norm.
	L2
	// LInf is the max-absolute-value norm.
	LInf
)

// Norm computes ||t|| under the given NormKind.
func Norm(t Tree, kind NormKind) float64 {
	v := t.Flatten()
	switch kind {
	case L2:
		return mat.Norm(v, 2)
	case LInf:
		return mat.Norm(v, math.Inf(1))
	default: // RMS
		n := v.Len()
		if n == 0 {
			return 0
		}
		sum := 0.0
		raw := v.RawVector().Data
		for _, x := range raw {
			sum += x * x
		}
		return math.Sqrt(sum / float64(n))
	}
}

// ScaledNorm computes ||delta / (atol + rtol*|y|)|| under kind, the weighted
// convergence metric ("diffsize") every termination predicate in this
// module is built on.
func ScaledNorm(delta, y Tree, atol, rtol float64, kind NormKind) float64 {
	requireSameStructure("ScaledNorm", delta, y)
	scaled := Map2(delta, y, func(d, yi float64) float64 {
		return d / (atol + rtol*math.Abs(yi))
	})
	return Norm(scaled, kind)
}

// AnyNaN reports whether any leaf entry of t is NaN, used by NonlinearCG's
// beta-reset guard.
func AnyNaN(t Tree) bool {
	v := t.Flatten()
	for _, x := range v.RawVector().Data {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

// AnyInf reports whether any leaf entry of t is +/-Inf, used by
// NonlinearCG's beta-reset guard.
func AnyInf(t Tree) bool {
	v := t.Flatten()
	for _, x := range v.RawVector().Data {
		if math.IsInf(x, 0) {
			return true
		}
	}
	return false
}
