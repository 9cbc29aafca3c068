// Package order plans renumbering of sibling positions under one parent.
//
// Positions of a parent's children are always the contiguous set {0..n-1}.
// The functions here compute, without touching storage, which block of
// siblings must shift for an append, insert, remove, or move so the set stays
// contiguous. Execution happens inside the caller's transaction.
package order

import (
	"fmt"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
)

// Shift describes a contiguous block of sibling positions to renumber by
// Delta. Bounds are inclusive; a Shift with Lo > Hi moves nothing.
type Shift struct {
	Lo    int
	Hi    int
	Delta int
}

// Empty reports whether the shift touches no siblings.
func (s Shift) Empty() bool { return s.Lo > s.Hi }

// Append returns the position of a child appended to a parent with n
// children. Existing siblings never move on append.
func Append(n int) int { return n }

// InsertPlan returns the shift making room at position at among n children.
// at == n degenerates to an append. Siblings at positions >= at move up one.
func InsertPlan(n, at int) (Shift, error) {
	if at < 0 || at > n {
		return Shift{}, fmt.Errorf("insert at %d of %d: %w", at, n, errs.ErrInvalidPosition)
	}
	return Shift{Lo: at, Hi: n - 1, Delta: +1}, nil
}

// RemovePlan returns the shift closing the gap left by removing the child at
// position removed from n children. Siblings after it move down one; removing
// the last child shifts nothing.
func RemovePlan(n, removed int) (Shift, error) {
	if removed < 0 || removed >= n {
		return Shift{}, fmt.Errorf("remove %d of %d: %w", removed, n, errs.ErrInvalidPosition)
	}
	return Shift{Lo: removed + 1, Hi: n - 1, Delta: -1}, nil
}

// MovePlan returns the shift displacing the siblings between from and to when
// the child at from is reassigned position to. Moving down shifts (from, to]
// by -1; moving up shifts [to, from) by +1; from == to shifts nothing.
func MovePlan(n, from, to int) (Shift, error) {
	if from < 0 || from >= n {
		return Shift{}, fmt.Errorf("move from %d of %d: %w", from, n, errs.ErrInvalidPosition)
	}
	if to < 0 || to >= n {
		return Shift{}, fmt.Errorf("move to %d of %d: %w", to, n, errs.ErrInvalidPosition)
	}
	switch {
	case from < to:
		return Shift{Lo: from + 1, Hi: to, Delta: -1}, nil
	case from > to:
		return Shift{Lo: to, Hi: from - 1, Delta: +1}, nil
	default:
		return Shift{Lo: 1, Hi: 0}, nil
	}
}
