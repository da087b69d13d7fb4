package kanban

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/db"
	"github.com/kanban-dev/kanban/internal/config"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	cfg := config.Default()
	cfg.Database.URL = ":memory:"

	conn, err := db.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	require.NoError(t, db.MigrateDatabase(conn))

	return NewService(conn), conn
}

func newTestUser(t *testing.T, conn *gorm.DB, email string) uuid.UUID {
	t.Helper()

	user := models.User{Name: email, Email: email, PasswordHash: "unused", Role: models.RoleUser}
	require.NoError(t, conn.Create(&user).Error)

	return user.ID
}

// newTestBoard creates a board with the default columns and returns it
// together with its column ids keyed by name.
func newTestBoard(t *testing.T, svc *Service, userID uuid.UUID, name string) (*models.Board, map[string]uuid.UUID) {
	t.Helper()

	board, created, err := svc.CreateBoard(context.Background(), userID, name)
	require.NoError(t, err)
	require.True(t, created)

	view, err := svc.GetBoard(context.Background(), userID, board.ID)
	require.NoError(t, err)

	columns := make(map[string]uuid.UUID, len(view.Columns))
	for _, cv := range view.Columns {
		columns[cv.Column.Name] = cv.Column.ID
	}

	return board, columns
}

func newTestTask(t *testing.T, svc *Service, userID, boardID, columnID uuid.UUID, title string) *models.Task {
	t.Helper()

	task, err := svc.CreateTask(context.Background(), userID, TaskInput{
		BoardID:  boardID,
		ColumnID: columnID,
		Title:    title,
	})
	require.NoError(t, err)

	return task
}

func taskIDs(t *testing.T, svc *Service, userID, columnID uuid.UUID) []uuid.UUID {
	t.Helper()

	ids, err := svc.ColumnTaskIDs(context.Background(), userID, columnID)
	require.NoError(t, err)

	return ids
}
