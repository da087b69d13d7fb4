package kanban

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
)

type Scope string

const (
	ScopeMine Scope = "my"
	ScopeAll  Scope = "all"
)

func ParseScope(raw string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ScopeMine:
		return ScopeMine, nil
	case ScopeAll:
		return ScopeAll, nil
	}
	return "", invalid("ParseScope", "scope", "must be one of my, all")
}

// CanRead reports whether userID may see board: owners always, everyone
// signed in when the board is public. A nil board is never readable.
func CanRead(userID uuid.UUID, board *models.Board) bool {
	if board == nil || userID == uuid.Nil {
		return false
	}
	return board.UserID == userID || !board.IsPrivate
}

// CanWrite reports whether userID may mutate board or anything on it.
func CanWrite(userID uuid.UUID, board *models.Board) bool {
	if board == nil || userID == uuid.Nil {
		return false
	}
	return board.UserID == userID
}

// visibleBoards narrows a boards query to what userID may list.
func visibleBoards(tx *gorm.DB, userID uuid.UUID, scope Scope, q string) *gorm.DB {
	if scope == ScopeAll {
		tx = tx.Where("(user_id = ? OR is_private = ?)", userID, false)
	} else {
		tx = tx.Where("user_id = ?", userID)
	}

	if q = strings.TrimSpace(q); q != "" {
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(q))+"%")
	}

	return tx
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
