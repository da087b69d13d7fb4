package kanban

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
)

// DefaultBoardName is provisioned for every new user.
const DefaultBoardName = "Default Board"

type BoardSummary struct {
	ID        uuid.UUID
	Name      string
	UserID    uuid.UUID
	IsPrivate bool
	IsMine    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProvisionBoard returns userID's board called name, creating it with the
// default columns when it does not exist yet. It runs on the caller's
// transaction so signup can provision atomically.
func ProvisionBoard(tx *gorm.DB, userID uuid.UUID, name string) (*models.Board, bool, error) {
	const op = "ProvisionBoard"

	if userID == uuid.Nil {
		return nil, false, invalid(op, "user_id", "missing")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, invalid(op, "name", "board name is required")
	}

	var existing []models.Board
	if err := tx.Where("user_id = ? AND name = ?", userID, name).Limit(1).Find(&existing).Error; err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		return &existing[0], false, nil
	}

	board := models.Board{Name: name, UserID: userID, IsPrivate: true}
	if err := tx.Create(&board).Error; err != nil {
		return nil, false, err
	}

	columns := make([]models.Column, len(models.DefaultColumns))
	for i, colName := range models.DefaultColumns {
		columns[i] = models.Column{Name: colName, Order: i, BoardID: board.ID}
	}

	if err := tx.Create(&columns).Error; err != nil {
		return nil, false, err
	}

	board.Columns = columns
	log.Printf("[kanban] provisioned board %s (%q) for user %s", board.ID, name, userID)

	return &board, true, nil
}

// CreateBoard creates a private board with the default columns. Creating a
// board under a name the user already has returns that board and false,
// made private again if it had been shared.
func (s *Service) CreateBoard(ctx context.Context, userID uuid.UUID, name string) (*models.Board, bool, error) {
	const op = "CreateBoard"

	if err := requireUser(op, userID); err != nil {
		return nil, false, err
	}

	var (
		board   *models.Board
		created bool
	)

	err := s.transaction(ctx, op, func(tx *gorm.DB) error {
		var err error
		if board, created, err = ProvisionBoard(tx, userID, name); err != nil {
			return err
		}

		if created || board.IsPrivate {
			return nil
		}

		if err := tx.Model(board).Update("is_private", true).Error; err != nil {
			return err
		}

		board.IsPrivate = true
		return nil
	})

	if err != nil {
		return nil, false, err
	}

	return board, created, nil
}

// BoardPatch carries the board fields to change. Nil fields are left alone.
type BoardPatch struct {
	Name      *string
	IsPrivate *bool
}

// UpdateBoard applies patch in one transaction, so either every field
// changes or none does.
func (s *Service) UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, patch BoardPatch) (*models.Board, error) {
	return s.updateBoard(ctx, "UpdateBoard", userID, boardID, patch)
}

func (s *Service) RenameBoard(ctx context.Context, userID, boardID uuid.UUID, name string) (*models.Board, error) {
	return s.updateBoard(ctx, "RenameBoard", userID, boardID, BoardPatch{Name: &name})
}

func (s *Service) SetBoardPrivacy(ctx context.Context, userID, boardID uuid.UUID, isPrivate bool) (*models.Board, error) {
	return s.updateBoard(ctx, "SetBoardPrivacy", userID, boardID, BoardPatch{IsPrivate: &isPrivate})
}

func (s *Service) updateBoard(ctx context.Context, op string, userID, boardID uuid.UUID, patch BoardPatch) (*models.Board, error) {
	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	if patch.Name == nil && patch.IsPrivate == nil {
		return nil, invalid(op, "board", "no fields to update")
	}

	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid(op, "name", "board name is required")
		}
	}

	var board *models.Board

	err := s.transaction(ctx, op, func(tx *gorm.DB) error {
		var err error
		if board, err = writableBoard(tx, op, userID, boardID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if patch.Name != nil && board.Name != name {
			updates["name"] = name
		}
		if patch.IsPrivate != nil && board.IsPrivate != *patch.IsPrivate {
			updates["is_private"] = *patch.IsPrivate
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(board).Updates(updates).Error; err != nil {
			return err
		}

		if patch.Name != nil {
			board.Name = name
		}
		if patch.IsPrivate != nil {
			board.IsPrivate = *patch.IsPrivate
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return board, nil
}

// DeleteBoard removes the board with all of its columns and tasks.
func (s *Service) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	const op = "DeleteBoard"

	if err := requireUser(op, userID); err != nil {
		return err
	}

	return s.transaction(ctx, op, func(tx *gorm.DB) error {
		board, err := writableBoard(tx, op, userID, boardID)
		if err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", board.ID).Delete(&models.Column{}).Error; err != nil {
			return err
		}

		return tx.Delete(board).Error
	})
}

// ListBoards lists the boards visible under scope, most recently updated
// first, optionally filtered by a case-insensitive substring of the name.
func (s *Service) ListBoards(ctx context.Context, userID uuid.UUID, scope Scope, q string) ([]BoardSummary, error) {
	const op = "ListBoards"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	var boards []models.Board

	err := visibleBoards(s.db.WithContext(ctx), userID, scope, q).
		Order("updated_at DESC, id ASC").
		Find(&boards).Error

	if err != nil {
		return nil, storeError(op, err)
	}

	out := make([]BoardSummary, 0, len(boards))
	for _, b := range boards {
		out = append(out, BoardSummary{
			ID:        b.ID,
			Name:      b.Name,
			UserID:    b.UserID,
			IsPrivate: b.IsPrivate,
			IsMine:    b.UserID == userID,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		})
	}

	return out, nil
}
