package postgres

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/WaryFriend456/FlowGrid/internal/errs"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func ids(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.Must(uuid.NewV4())
	}
	return out
}

func TestListRepo_Create_AppendsAtChildCount(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewListRepo(db)

	v := ids(t, 2)
	owner, boardID := v[0], v[1]

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT owner_id FROM boards WHERE id=\$1 FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(owner))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM task_lists WHERE board_id=\$1`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO task_lists \(id, title, board_id, position\) VALUES \(\$1,\$2,\$3,\$4\)`).
		WithArgs(pgxmock.AnyArg(), "Doing", boardID, 3).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	l, err := r.Create(context.Background(), owner, boardID, "Doing")
	require.NoError(t, err)
	require.Equal(t, 3, l.Position)
	require.Equal(t, boardID, l.BoardID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_Create_ForbiddenForNonOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewListRepo(db)

	v := ids(t, 3)
	owner, stranger, boardID := v[0], v[1], v[2]

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT owner_id FROM boards WHERE id=\$1 FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(owner))
	mock.ExpectRollback()

	_, err := r.Create(context.Background(), stranger, boardID, "Doing")
	require.ErrorIs(t, err, errs.ErrForbidden)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_Create_MissingBoardIsNotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewListRepo(db)

	v := ids(t, 2)
	caller, boardID := v[0], v[1]

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT owner_id FROM boards WHERE id=\$1 FOR UPDATE`).
		WithArgs(boardID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Create(context.Background(), caller, boardID, "Doing")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_Delete_RenumbersLaterSiblings(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewListRepo(db)

	v := ids(t, 3)
	owner, boardID, listID := v[0], v[1], v[2]

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT board_id FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id"}).AddRow(boardID))
	mock.ExpectQuery(`SELECT owner_id FROM boards WHERE id=\$1 FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(owner))
	mock.ExpectQuery(`SELECT board_id, position FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id", "position"}).AddRow(boardID, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM task_lists WHERE board_id=\$1`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(`DELETE FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`UPDATE task_lists SET position = position \+ \$1 WHERE board_id=\$2 AND position BETWEEN \$3 AND \$4`).
		WithArgs(-1, boardID, 2, 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	require.NoError(t, r.Delete(context.Background(), owner, listID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_Delete_LastPositionSkipsRenumber(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewListRepo(db)

	v := ids(t, 3)
	owner, boardID, listID := v[0], v[1], v[2]

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT board_id FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id"}).AddRow(boardID))
	mock.ExpectQuery(`SELECT owner_id FROM boards WHERE id=\$1 FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(owner))
	mock.ExpectQuery(`SELECT board_id, position FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id", "position"}).AddRow(boardID, 3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM task_lists WHERE board_id=\$1`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(`DELETE FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, r.Delete(context.Background(), owner, listID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_Move_ShiftsDisplacedBlock(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewListRepo(db)

	v := ids(t, 3)
	owner, boardID, listID := v[0], v[1], v[2]

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT board_id FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id"}).AddRow(boardID))
	mock.ExpectQuery(`SELECT owner_id FROM boards WHERE id=\$1 FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(owner))
	mock.ExpectQuery(`SELECT board_id, position FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id", "position"}).AddRow(boardID, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM task_lists WHERE board_id=\$1`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(`UPDATE task_lists SET position = position \+ \$1 WHERE board_id=\$2 AND position BETWEEN \$3 AND \$4`).
		WithArgs(-1, boardID, 1, 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec(`UPDATE task_lists SET position=\$2 WHERE id=\$1`).
		WithArgs(listID, 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, r.Move(context.Background(), owner, listID, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepo_Move_OutOfRangePosition(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewListRepo(db)

	v := ids(t, 3)
	owner, boardID, listID := v[0], v[1], v[2]

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT board_id FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id"}).AddRow(boardID))
	mock.ExpectQuery(`SELECT owner_id FROM boards WHERE id=\$1 FOR UPDATE`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(owner))
	mock.ExpectQuery(`SELECT board_id, position FROM task_lists WHERE id=\$1`).
		WithArgs(listID).
		WillReturnRows(pgxmock.NewRows([]string{"board_id", "position"}).AddRow(boardID, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM task_lists WHERE board_id=\$1`).
		WithArgs(boardID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := r.Move(context.Background(), owner, listID, 5)
	require.ErrorIs(t, err, errs.ErrInvalidPosition)
	require.NoError(t, mock.ExpectationsWereMet())
}
