// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/areatrack/internal/area"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertLogArea checks a log area against want, treating two -Inf values as
// equal.
func AssertLogArea(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.IsInf(want, -1) {
		if !math.IsInf(got, -1) {
			t.Errorf("log area = %g, want -Inf", got)
		}
		return
	}
	if math.Abs(got-want) > tol {
		t.Errorf("log area = %.17g, want %.17g (tol %g)", got, want, tol)
	}
}

// HalvingChild is one box of a synthetic subdivision level, given in its
// parent's local [-1,1]^n frame. Parent is -1 for children of the root.
type HalvingChild struct {
	Box    area.Box
	Parent int
}

// HalvingLevels builds a synthetic subdivision trace. At level L every
// surviving box is bisected along dimension L%dim and only the first
// maxLeaves children are kept. With maxLeaves=2 the total area at level L
// is exactly 2^-L.
func HalvingLevels(dim, levels, maxLeaves int) [][]HalvingChild {
	out := make([][]HalvingChild, 0, levels)
	parents := []int{-1}
	for level := 0; level < levels; level++ {
		d := level % dim
		lower := area.Domain(dim)
		lower.Upper[d] = 0
		upper := area.Domain(dim)
		upper.Lower[d] = 0

		var children []HalvingChild
		for _, p := range parents {
			for _, b := range []area.Box{lower, upper} {
				if len(children) == maxLeaves {
					break
				}
				children = append(children, HalvingChild{Box: b, Parent: p})
			}
		}
		out = append(out, children)

		parents = parents[:0]
		for i := range children {
			parents = append(parents, i)
		}
	}
	return out
}
