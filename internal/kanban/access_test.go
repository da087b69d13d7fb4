package kanban

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanReadAndCanWrite(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()

	private := &models.Board{UserID: owner, IsPrivate: true}
	public := &models.Board{UserID: owner, IsPrivate: false}

	tests := []struct {
		name      string
		user      uuid.UUID
		board     *models.Board
		wantRead  bool
		wantWrite bool
	}{
		{"owner private", owner, private, true, true},
		{"owner public", owner, public, true, true},
		{"stranger private", stranger, private, false, false},
		{"stranger public", stranger, public, true, false},
		{"anonymous public", uuid.Nil, public, false, false},
		{"nil board", owner, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRead, CanRead(tt.user, tt.board))
			assert.Equal(t, tt.wantWrite, CanWrite(tt.user, tt.board))
		})
	}
}

func TestPrivateBoardIsHiddenFromOthers(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	stranger := newTestUser(t, conn, "stranger@example.com")

	board, cols := newTestBoard(t, svc, owner, "Secret")
	task := newTestTask(t, svc, owner, board.ID, cols["Backlog"], "hidden")

	_, err := svc.GetBoard(ctx, stranger, board.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ColumnTaskIDs(ctx, stranger, cols["Backlog"])
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AuthorizeRead(ctx, stranger, board.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Same answer as for a board that does not exist.
	_, err = svc.GetBoard(ctx, stranger, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetBoard(ctx, uuid.Nil, board.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.MoveTask(ctx, stranger, task.ID, cols["Done"], 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicBoardIsReadOnlyForOthers(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	reader := newTestUser(t, conn, "reader@example.com")

	board, cols := newTestBoard(t, svc, owner, "Open")
	task := newTestTask(t, svc, owner, board.ID, cols["Backlog"], "visible")

	_, err := svc.SetBoardPrivacy(ctx, owner, board.ID, false)
	require.NoError(t, err)

	view, err := svc.GetBoard(ctx, reader, board.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, view.Board.ID)
	assert.Equal(t, []uuid.UUID{task.ID}, taskIDs(t, svc, reader, cols["Backlog"]))

	_, err = svc.AuthorizeWrite(ctx, reader, board.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateTask(ctx, reader, TaskInput{BoardID: board.ID, ColumnID: cols["Backlog"], Title: "intruder"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MoveTask(ctx, reader, task.ID, cols["Done"], 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.DeleteTask(ctx, reader, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RenameBoard(ctx, reader, board.ID, "mine now")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetBoardPrivacy(ctx, reader, board.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteBoard(ctx, reader, board.ID), ErrNotFound)

	assert.Equal(t, []uuid.UUID{task.ID}, taskIDs(t, svc, owner, cols["Backlog"]))
}
