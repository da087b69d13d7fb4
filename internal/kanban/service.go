// Package kanban holds the board ordering engine, the board assembler and
// the access rules that guard them. Every exported operation takes the
// requesting user's id and fails with ErrNotFound when that user may not
// see or change the target.
package kanban

import (
	"context"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return storeError(op, s.db.WithContext(ctx).Transaction(fn))
}

func requireUser(op string, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return &Error{Op: op, Err: ErrUnauthenticated}
	}
	return nil
}

// readableBoard loads a board and applies CanRead. Missing and invisible
// boards produce the same error.
func readableBoard(tx *gorm.DB, op string, userID, boardID uuid.UUID) (*models.Board, error) {
	var board models.Board

	if err := tx.Where("id = ?", boardID).First(&board).Error; err != nil {
		return nil, storeError(op, err)
	}

	if !CanRead(userID, &board) {
		return nil, refused(op)
	}

	return &board, nil
}

func writableBoard(tx *gorm.DB, op string, userID, boardID uuid.UUID) (*models.Board, error) {
	var board models.Board

	if err := tx.Where("id = ? AND user_id = ?", boardID, userID).First(&board).Error; err != nil {
		return nil, storeError(op, err)
	}

	return &board, nil
}

// writableTask loads a task whose board is owned by userID.
func writableTask(tx *gorm.DB, op string, userID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task

	if err := tx.Joins("JOIN boards ON boards.id = tasks.board_id").
		Where("tasks.id = ? AND boards.user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		return nil, storeError(op, err)
	}

	return &task, nil
}

// boardColumn loads a column and checks it belongs to boardID.
func boardColumn(tx *gorm.DB, op string, boardID, columnID uuid.UUID) (*models.Column, error) {
	var column models.Column

	if err := tx.Where("id = ? AND board_id = ?", columnID, boardID).First(&column).Error; err != nil {
		return nil, storeError(op, err)
	}

	return &column, nil
}

// AuthorizeRead returns the board when userID may read it.
func (s *Service) AuthorizeRead(ctx context.Context, userID, boardID uuid.UUID) (*models.Board, error) {
	const op = "AuthorizeRead"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	return readableBoard(s.db.WithContext(ctx), op, userID, boardID)
}

// AuthorizeWrite returns the board when userID may change it.
func (s *Service) AuthorizeWrite(ctx context.Context, userID, boardID uuid.UUID) (*models.Board, error) {
	const op = "AuthorizeWrite"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	return writableBoard(s.db.WithContext(ctx), op, userID, boardID)
}
