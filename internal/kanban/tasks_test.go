package kanban

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardLifecycleScenario(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")

	board, cols := newTestBoard(t, svc, owner, "My Tasks")
	assert.True(t, board.IsPrivate)
	backlog, todo := cols["Backlog"], cols["To Do"]

	a := newTestTask(t, svc, owner, board.ID, backlog, "A")
	b := newTestTask(t, svc, owner, board.ID, backlog, "B")
	assert.Equal(t, 100, a.Order)
	assert.Equal(t, 200, b.Order)

	moved, err := svc.MoveTask(ctx, owner, a.ID, todo, 0)
	require.NoError(t, err)
	assert.Equal(t, todo, moved.ColumnID)
	assert.Equal(t, []uuid.UUID{a.ID}, taskIDs(t, svc, owner, todo))
	assert.Equal(t, []uuid.UUID{b.ID}, taskIDs(t, svc, owner, backlog))

	_, err = svc.DeleteTask(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Empty(t, taskIDs(t, svc, owner, backlog))

	view, err := svc.GetBoard(ctx, owner, board.ID)
	require.NoError(t, err)
	require.Len(t, view.Columns, len(models.DefaultColumns))

	for i, cv := range view.Columns {
		assert.Equal(t, models.DefaultColumns[i], cv.Column.Name)
		assert.NotNil(t, cv.Tasks)
		assert.NotNil(t, cv.TaskIDs)

		switch cv.Column.ID {
		case todo:
			assert.Equal(t, []uuid.UUID{a.ID}, cv.TaskIDs)
			require.Len(t, cv.Tasks, 1)
			assert.Equal(t, "A", cv.Tasks[0].Title)
		default:
			assert.Empty(t, cv.Tasks)
		}
	}
}

func TestCreateTaskAppendsAfterHighestOrder(t *testing.T) {
	svc, conn := newTestService(t)
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")
	col := cols["To Do"]

	first := newTestTask(t, svc, owner, board.ID, col, "first")
	require.NoError(t, conn.Model(&models.Task{}).Where("id = ?", first.ID).Update("sort_order", 950).Error)

	second := newTestTask(t, svc, owner, board.ID, col, "second")
	assert.Equal(t, 1050, second.Order)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, taskIDs(t, svc, owner, col))
}

func TestCreateTaskValidation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")
	other, otherCols := newTestBoard(t, svc, owner, "Other")

	_, err := svc.CreateTask(ctx, owner, TaskInput{BoardID: board.ID, ColumnID: cols["Done"], Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateTask(ctx, owner, TaskInput{BoardID: board.ID, ColumnID: cols["Done"], Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrValidation)

	// Column from another board.
	_, err = svc.CreateTask(ctx, owner, TaskInput{BoardID: board.ID, ColumnID: otherCols["Done"], Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateTask(ctx, uuid.Nil, TaskInput{BoardID: other.ID, ColumnID: otherCols["Done"], Title: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreateTaskNormalizesFields(t *testing.T) {
	svc, conn := newTestService(t)
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")

	task, err := svc.CreateTask(context.Background(), owner, TaskInput{
		BoardID:  board.ID,
		ColumnID: cols["Backlog"],
		Title:    "  Write docs ",
		Subtitle: " ",
		Link:     "example.com/docs",
		Labels:   []string{"docs", " docs", "team"},
		Priority: "Medium",
		DueDate:  "2030-01-15",
	})
	require.NoError(t, err)

	var stored models.Task
	require.NoError(t, conn.Where("id = ?", task.ID).First(&stored).Error)

	assert.Equal(t, "Write docs", stored.Title)
	assert.Nil(t, stored.Subtitle)
	require.NotNil(t, stored.Link)
	assert.Equal(t, "https://example.com/docs", *stored.Link)
	assert.Equal(t, []string{"docs", "team"}, []string(stored.Labels))
	require.NotNil(t, stored.Priority)
	assert.Equal(t, models.PriorityMedium, *stored.Priority)
	assert.Equal(t, "2030-01-15", FormatDate(stored.DueDate))
	assert.Equal(t, owner, stored.UserID)
}

func TestMoveTaskWithinColumn(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")
	col := cols["Doing"]

	a := newTestTask(t, svc, owner, board.ID, col, "a")
	b := newTestTask(t, svc, owner, board.ID, col, "b")
	c := newTestTask(t, svc, owner, board.ID, col, "c")

	_, err := svc.MoveTask(ctx, owner, c.ID, col, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID, a.ID, b.ID}, taskIDs(t, svc, owner, col))

	_, err = svc.MoveTask(ctx, owner, c.ID, col, 99)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, taskIDs(t, svc, owner, col))

	var stored []models.Task
	require.NoError(t, conn.Where("column_id = ?", col).Order("sort_order").Find(&stored).Error)
	assert.Equal(t, []int{0, 100, 200}, orders(stored))
}

func TestMoveTaskAcrossColumnsAtRank(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")
	from, to := cols["Backlog"], cols["Review"]

	moving := newTestTask(t, svc, owner, board.ID, from, "moving")
	stay := newTestTask(t, svc, owner, board.ID, from, "stay")
	x := newTestTask(t, svc, owner, board.ID, to, "x")
	y := newTestTask(t, svc, owner, board.ID, to, "y")

	moved, err := svc.MoveTask(ctx, owner, moving.ID, to, 1)
	require.NoError(t, err)

	assert.Equal(t, to, moved.ColumnID)
	assert.Equal(t, []uuid.UUID{stay.ID}, taskIDs(t, svc, owner, from))
	assert.Equal(t, []uuid.UUID{x.ID, moving.ID, y.ID}, taskIDs(t, svc, owner, to))
}

func TestMoveTaskRejectsForeignColumn(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")
	_, otherCols := newTestBoard(t, svc, owner, "Elsewhere")

	task := newTestTask(t, svc, owner, board.ID, cols["Backlog"], "task")

	_, err := svc.MoveTask(ctx, owner, task.ID, otherCols["Backlog"], 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []uuid.UUID{task.ID}, taskIDs(t, svc, owner, cols["Backlog"]))
}

func TestUpdateTask(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")

	task, err := svc.CreateTask(ctx, owner, TaskInput{
		BoardID:  board.ID,
		ColumnID: cols["Backlog"],
		Title:    "draft",
		Subtitle: "sub",
		Priority: "low",
	})
	require.NoError(t, err)

	title, empty := "final", ""
	labels := []string{"x", "x", " y "}

	updated, err := svc.UpdateTask(ctx, owner, task.ID, TaskPatch{
		Title:    &title,
		Subtitle: &empty,
		Labels:   &labels,
	})
	require.NoError(t, err)

	assert.Equal(t, "final", updated.Title)
	assert.Nil(t, updated.Subtitle)
	assert.Equal(t, []string{"x", "y"}, []string(updated.Labels))
	require.NotNil(t, updated.Priority)
	assert.Equal(t, models.PriorityLow, *updated.Priority)
	assert.Equal(t, cols["Backlog"], updated.ColumnID)

	_, err = svc.UpdateTask(ctx, owner, task.ID, TaskPatch{Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateTaskColumnChangeAppends(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")
	done := cols["Done"]

	existing := newTestTask(t, svc, owner, board.ID, done, "existing")
	task := newTestTask(t, svc, owner, board.ID, cols["Doing"], "task")

	updated, err := svc.UpdateTask(ctx, owner, task.ID, TaskPatch{ColumnID: &done})
	require.NoError(t, err)

	assert.Equal(t, done, updated.ColumnID)
	assert.Equal(t, []uuid.UUID{existing.ID, task.ID}, taskIDs(t, svc, owner, done))
	assert.Empty(t, taskIDs(t, svc, owner, cols["Doing"]))
}

func TestDeleteTask(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := newTestUser(t, conn, "owner@example.com")
	board, cols := newTestBoard(t, svc, owner, "Work")

	keep := newTestTask(t, svc, owner, board.ID, cols["Backlog"], "keep")
	drop := newTestTask(t, svc, owner, board.ID, cols["Backlog"], "drop")

	deleted, err := svc.DeleteTask(ctx, owner, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, deleted.BoardID)

	var count int64
	require.NoError(t, conn.Model(&models.Task{}).Where("id = ?", drop.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, []uuid.UUID{keep.ID}, taskIDs(t, svc, owner, cols["Backlog"]))

	_, err = svc.DeleteTask(ctx, owner, drop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestColumnTaskIDsMissingColumn(t *testing.T) {
	svc, conn := newTestService(t)
	owner := newTestUser(t, conn, "owner@example.com")

	_, err := svc.ColumnTaskIDs(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
