package auth

import (
	"context"
	"testing"

	"github.com/kanban-dev/kanban/db"
	"github.com/kanban-dev/kanban/internal/config"
	"github.com/kanban-dev/kanban/internal/kanban"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUsers(t *testing.T) *Users {
	t.Helper()

	cfg := config.Default()
	cfg.Database.URL = ":memory:"

	conn, err := db.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.MigrateDatabase(conn))

	users := NewUsers(conn)
	users.cost = bcrypt.MinCost
	return users
}

func TestRegisterPromotesFirstUserAndProvisionsBoard(t *testing.T) {
	users := newTestUsers(t)
	ctx := context.Background()

	first, err := users.Register(ctx, RegisterInput{Name: " Ada ", Email: " Ada@Example.com ", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.Name)
	assert.Equal(t, "ada@example.com", first.Email)
	assert.Equal(t, models.RoleOwner, first.Role)

	second, err := users.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "password2"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role)

	stored, err := users.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, stored.Role)

	boards, err := kanban.NewService(users.db).ListBoards(ctx, second.ID, kanban.ScopeMine, "")
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, kanban.DefaultBoardName, boards[0].Name)
	assert.True(t, boards[0].IsPrivate)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := newTestUsers(t)
	ctx := context.Background()

	_, err := users.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = users.Register(ctx, RegisterInput{Name: "Ada 2", Email: "ADA@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, users.db.Model(&models.Board{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticate(t *testing.T) {
	users := newTestUsers(t)
	ctx := context.Background()

	registered, err := users.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)

	user, err := users.Authenticate(ctx, "Ada@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = users.Authenticate(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
