package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
)

// fakeChain holds chain links in maps; absent keys act as missing rows.
type fakeChain struct {
	owners map[uuid.UUID]uuid.UUID // boardID -> ownerID
	boards map[uuid.UUID]uuid.UUID // listID -> boardID
	lists  map[uuid.UUID]uuid.UUID // cardID -> listID

	err error // returned from every lookup when set
}

var _ ChainReader = (*fakeChain)(nil)

func (f *fakeChain) BoardOwner(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	return f.lookup(f.owners, id)
}
func (f *fakeChain) ListBoard(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	return f.lookup(f.boards, id)
}
func (f *fakeChain) CardList(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	return f.lookup(f.lists, id)
}

func (f *fakeChain) lookup(m map[uuid.UUID]uuid.UUID, id uuid.UUID) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	v, ok := m[id]
	if !ok {
		return uuid.Nil, errs.ErrNotFound
	}
	return v, nil
}

func newID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.Must(uuid.NewV4())
}

func TestResolve_BoardOwner(t *testing.T) {
	ctx := context.Background()
	owner, stranger, boardID := newID(t), newID(t), newID(t)
	chain := &fakeChain{owners: map[uuid.UUID]uuid.UUID{boardID: owner}}

	d, err := Resolve(ctx, chain, owner, BoardRef(boardID))
	require.NoError(t, err)
	require.Equal(t, Authorized, d)

	d, err = Resolve(ctx, chain, stranger, BoardRef(boardID))
	require.NoError(t, err)
	require.Equal(t, Forbidden, d)

	d, err = Resolve(ctx, chain, owner, BoardRef(newID(t)))
	require.NoError(t, err)
	require.Equal(t, NotFound, d)
}

func TestResolve_CardWalksFullChain(t *testing.T) {
	ctx := context.Background()
	owner, boardID, listID, cardID := newID(t), newID(t), newID(t), newID(t)
	chain := &fakeChain{
		owners: map[uuid.UUID]uuid.UUID{boardID: owner},
		boards: map[uuid.UUID]uuid.UUID{listID: boardID},
		lists:  map[uuid.UUID]uuid.UUID{cardID: listID},
	}

	d, err := Resolve(ctx, chain, owner, CardRef(cardID))
	require.NoError(t, err)
	require.Equal(t, Authorized, d)

	d, err = Resolve(ctx, chain, newID(t), CardRef(cardID))
	require.NoError(t, err)
	require.Equal(t, Forbidden, d)

	d, err = Resolve(ctx, chain, owner, ListRef(listID))
	require.NoError(t, err)
	require.Equal(t, Authorized, d)
}

// A list whose board row is gone must read as NotFound, not as an internal
// error: the chain is simply broken at that level.
func TestResolve_BrokenLinkIsNotFound(t *testing.T) {
	ctx := context.Background()
	owner, boardID, listID, cardID := newID(t), newID(t), newID(t), newID(t)

	chain := &fakeChain{
		owners: map[uuid.UUID]uuid.UUID{boardID: owner},
		boards: map[uuid.UUID]uuid.UUID{}, // list -> board link missing
		lists:  map[uuid.UUID]uuid.UUID{cardID: listID},
	}
	d, err := Resolve(ctx, chain, owner, CardRef(cardID))
	require.NoError(t, err)
	require.Equal(t, NotFound, d)

	d, err = Resolve(ctx, chain, owner, ListRef(listID))
	require.NoError(t, err)
	require.Equal(t, NotFound, d)

	d, err = Resolve(ctx, chain, owner, CardRef(newID(t)))
	require.NoError(t, err)
	require.Equal(t, NotFound, d)
}

func TestResolve_InfrastructureErrorSurfaces(t *testing.T) {
	boom := errors.New("connection reset")
	chain := &fakeChain{err: boom}

	_, err := Resolve(context.Background(), chain, newID(t), BoardRef(newID(t)))
	require.ErrorIs(t, err, boom)
}

func TestDecisionErr(t *testing.T) {
	require.NoError(t, Authorized.Err())
	require.ErrorIs(t, Forbidden.Err(), errs.ErrForbidden)
	require.ErrorIs(t, NotFound.Err(), errs.ErrNotFound)
}
