package order

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
	"github.com/stretchr/testify/require"
)

// parent simulates one parent's children as position -> child id, applying
// shifts the way the postgres repo executes them.
type parent struct {
	byPos map[int]int
	next  int
}

func newParent() *parent { return &parent{byPos: map[int]int{}} }

func (p *parent) count() int { return len(p.byPos) }

func (p *parent) apply(s Shift) {
	moved := map[int]int{}
	for pos, id := range p.byPos {
		if pos >= s.Lo && pos <= s.Hi {
			moved[pos+s.Delta] = id
			delete(p.byPos, pos)
		}
	}
	for pos, id := range moved {
		p.byPos[pos] = id
	}
}

func (p *parent) append_() int {
	pos := Append(p.count())
	p.byPos[pos] = p.next
	p.next++
	return pos
}

func (p *parent) insert(at int) error {
	s, err := InsertPlan(p.count(), at)
	if err != nil {
		return err
	}
	p.apply(s)
	p.byPos[at] = p.next
	p.next++
	return nil
}

func (p *parent) remove(at int) error {
	s, err := RemovePlan(p.count(), at)
	if err != nil {
		return err
	}
	delete(p.byPos, at)
	p.apply(s)
	return nil
}

func (p *parent) move(from, to int) error {
	s, err := MovePlan(p.count(), from, to)
	if err != nil {
		return err
	}
	id, ok := p.byPos[from]
	if !ok {
		return errs.ErrInvalidPosition
	}
	delete(p.byPos, from)
	p.apply(s)
	p.byPos[to] = id
	return nil
}

// sequence returns child ids ordered by position.
func (p *parent) sequence() []int {
	poss := make([]int, 0, len(p.byPos))
	for pos := range p.byPos {
		poss = append(poss, pos)
	}
	sort.Ints(poss)
	out := make([]int, 0, len(poss))
	for _, pos := range poss {
		out = append(out, p.byPos[pos])
	}
	return out
}

func requireContiguous(t *testing.T, p *parent) {
	t.Helper()
	seen := map[int]bool{}
	for pos := range p.byPos {
		require.GreaterOrEqual(t, pos, 0)
		require.Less(t, pos, p.count())
		require.False(t, seen[pos], "duplicate position %d", pos)
		seen[pos] = true
	}
}

func TestAppend_ReturnsCountAndLeavesSiblings(t *testing.T) {
	p := newParent()
	for i := 0; i < 5; i++ {
		before := p.sequence()
		pos := p.append_()
		require.Equal(t, i, pos)
		require.Equal(t, before, p.sequence()[:i])
		requireContiguous(t, p)
	}
}

func TestRemovePlan_LastIsNoop(t *testing.T) {
	s, err := RemovePlan(4, 3)
	require.NoError(t, err)
	require.True(t, s.Empty())
}

func TestRemovePlan_FirstShiftsAll(t *testing.T) {
	s, err := RemovePlan(4, 0)
	require.NoError(t, err)
	require.Equal(t, Shift{Lo: 1, Hi: 3, Delta: -1}, s)
}

func TestRemovePlan_OutOfRange(t *testing.T) {
	for _, at := range []int{-1, 3, 10} {
		_, err := RemovePlan(3, at)
		require.ErrorIs(t, err, errs.ErrInvalidPosition)
	}
}

func TestRemove_ClosesGapKeepingRelativeOrder(t *testing.T) {
	p := newParent()
	a, b, c := p.append_(), p.append_(), p.append_()
	require.Equal(t, []int{a, b, c}, []int{0, 1, 2})

	require.NoError(t, p.remove(1))
	requireContiguous(t, p)
	require.Equal(t, []int{p.byPos[0], p.byPos[1]}, []int{0, 2})
}

func TestInsertPlan_Bounds(t *testing.T) {
	s, err := InsertPlan(3, 3) // == append
	require.NoError(t, err)
	require.True(t, s.Empty())

	s, err = InsertPlan(3, 0)
	require.NoError(t, err)
	require.Equal(t, Shift{Lo: 0, Hi: 2, Delta: 1}, s)

	_, err = InsertPlan(3, 4)
	require.ErrorIs(t, err, errs.ErrInvalidPosition)
	_, err = InsertPlan(3, -1)
	require.ErrorIs(t, err, errs.ErrInvalidPosition)
}

func TestMovePlan_Ranges(t *testing.T) {
	s, err := MovePlan(5, 1, 3)
	require.NoError(t, err)
	require.Equal(t, Shift{Lo: 2, Hi: 3, Delta: -1}, s)

	s, err = MovePlan(5, 3, 1)
	require.NoError(t, err)
	require.Equal(t, Shift{Lo: 1, Hi: 2, Delta: 1}, s)

	s, err = MovePlan(5, 2, 2)
	require.NoError(t, err)
	require.True(t, s.Empty())

	_, err = MovePlan(5, 5, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPosition)
	_, err = MovePlan(5, 0, -1)
	require.ErrorIs(t, err, errs.ErrInvalidPosition)
}

func TestMove_RoundTripRestoresOrder(t *testing.T) {
	p := newParent()
	for i := 0; i < 6; i++ {
		p.append_()
	}
	orig := p.sequence()

	for from := 0; from < 6; from++ {
		for to := 0; to < 6; to++ {
			require.NoError(t, p.move(from, to))
			requireContiguous(t, p)
			require.NoError(t, p.move(to, from))
			require.Equal(t, orig, p.sequence())
		}
	}
}

func TestRandomSequencesKeepPositionsContiguous(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		p := newParent()
		for step := 0; step < 100; step++ {
			n := p.count()
			switch rng.Intn(4) {
			case 0:
				p.append_()
			case 1:
				require.NoError(t, p.insert(rng.Intn(n+1)))
			case 2:
				if n > 0 {
					require.NoError(t, p.remove(rng.Intn(n)))
				}
			case 3:
				if n > 0 {
					require.NoError(t, p.move(rng.Intn(n), rng.Intn(n)))
				}
			}
			requireContiguous(t, p)
		}
	}
}
