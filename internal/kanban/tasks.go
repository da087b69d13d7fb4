package kanban

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskInput struct {
	BoardID     uuid.UUID
	ColumnID    uuid.UUID
	Title       string
	Subtitle    string
	Link        string
	Description string
	Labels      []string
	Priority    string
	DueDate     string
}

// TaskPatch changes only the fields that are set. An empty string clears an
// optional field. ColumnID and Position together describe a move; either
// may be given alone.
type TaskPatch struct {
	Title       *string
	Subtitle    *string
	Link        *string
	Description *string
	Labels      *[]string
	Priority    *string
	DueDate     *string
	ColumnID    *uuid.UUID
	Position    *int
}

func (p TaskPatch) moves() bool {
	return p.ColumnID != nil || p.Position != nil
}

// CreateTask appends a task to the end of its column.
func (s *Service) CreateTask(ctx context.Context, userID uuid.UUID, in TaskInput) (*models.Task, error) {
	const op = "CreateTask"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid(op, "title", "title is required")
	}

	link, err := normalizeLink(op, in.Link)
	if err != nil {
		return nil, err
	}

	priority, err := normalizePriority(op, in.Priority)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(op, in.DueDate)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		Title:       title,
		Subtitle:    optional(in.Subtitle),
		Link:        link,
		Description: optional(in.Description),
		Labels:      NormalizeLabels(in.Labels),
		Priority:    priority,
		DueDate:     dueDate,
		UserID:      userID,
	}

	err = s.transaction(ctx, op, func(tx *gorm.DB) error {
		board, err := writableBoard(tx, op, userID, in.BoardID)
		if err != nil {
			return err
		}

		column, err := boardColumn(tx, op, board.ID, in.ColumnID)
		if err != nil {
			return err
		}

		last, err := lastTask(tx, board.ID, column.ID)
		if err != nil {
			return err
		}

		task.BoardID = board.ID
		task.ColumnID = column.ID
		task.Order = appendOrder(last)

		return tx.Create(&task).Error
	})

	if err != nil {
		return nil, err
	}

	return &task, nil
}

// MoveTask places a task at a zero-based rank in a column of the same board.
// The destination column is re-ranked so the rank holds without ties.
func (s *Service) MoveTask(ctx context.Context, userID, taskID, columnID uuid.UUID, position int) (*models.Task, error) {
	return s.UpdateTask(ctx, userID, taskID, TaskPatch{ColumnID: &columnID, Position: &position})
}

// UpdateTask applies patch and, when it carries a column or position, the
// move, all in one transaction.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, patch TaskPatch) (*models.Task, error) {
	const op = "UpdateTask"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	updates, err := patchUpdates(op, patch)
	if err != nil {
		return nil, err
	}

	var task *models.Task

	err = s.transaction(ctx, op, func(tx *gorm.DB) error {
		var err error
		if task, err = writableTask(tx, op, userID, taskID); err != nil {
			return err
		}

		if patch.moves() {
			if err := applyMove(tx, op, task, patch); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		var fresh models.Task
		if err := tx.Where("id = ?", task.ID).First(&fresh).Error; err != nil {
			return err
		}

		task = &fresh
		return nil
	})

	if err != nil {
		return nil, err
	}

	return task, nil
}

// applyMove resolves the destination of a patch. A column change without a
// position appends; a position without a column reorders in place.
func applyMove(tx *gorm.DB, op string, task *models.Task, patch TaskPatch) error {
	destID := task.ColumnID
	if patch.ColumnID != nil {
		destID = *patch.ColumnID
	}

	dest, err := boardColumn(tx, op, task.BoardID, destID)
	if err != nil {
		return err
	}

	if patch.Position != nil {
		return moveTask(tx, task, dest, *patch.Position)
	}

	if dest.ID == task.ColumnID {
		return nil
	}

	siblings, err := siblingsOf(tx, task.BoardID, dest.ID, task.ID)
	if err != nil {
		return err
	}

	return moveTask(tx, task, dest, len(siblings))
}

// patchUpdates validates the field part of a patch and returns the column
// assignments to write.
func patchUpdates(op string, patch TaskPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid(op, "title", "title is required")
		}
		updates["title"] = title
	}

	if patch.Subtitle != nil {
		updates["subtitle"] = optional(*patch.Subtitle)
	}

	if patch.Description != nil {
		updates["description"] = optional(*patch.Description)
	}

	if patch.Link != nil {
		link, err := normalizeLink(op, *patch.Link)
		if err != nil {
			return nil, err
		}
		updates["link"] = link
	}

	if patch.Labels != nil {
		updates["labels"] = datatypes.JSONSlice[string](NormalizeLabels(*patch.Labels))
	}

	if patch.Priority != nil {
		priority, err := normalizePriority(op, *patch.Priority)
		if err != nil {
			return nil, err
		}
		updates["priority"] = priority
	}

	if patch.DueDate != nil {
		dueDate, err := parseDueDate(op, *patch.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = dueDate
	}

	return updates, nil
}

// DeleteTask removes a task. Remaining order values are left as they are.
func (s *Service) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	const op = "DeleteTask"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	var task *models.Task

	err := s.transaction(ctx, op, func(tx *gorm.DB) error {
		var err error
		if task, err = writableTask(tx, op, userID, taskID); err != nil {
			return err
		}

		return tx.Delete(task).Error
	})

	if err != nil {
		return nil, err
	}

	return task, nil
}

// ColumnTaskIDs returns the ids of a column's tasks in display order.
func (s *Service) ColumnTaskIDs(ctx context.Context, userID, columnID uuid.UUID) ([]uuid.UUID, error) {
	const op = "ColumnTaskIDs"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	var ids []uuid.UUID

	err := s.transaction(ctx, op, func(tx *gorm.DB) error {
		var column models.Column
		if err := tx.Where("id = ?", columnID).First(&column).Error; err != nil {
			return err
		}

		if _, err := readableBoard(tx, op, userID, column.BoardID); err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("board_id = ? AND column_id = ?", column.BoardID, column.ID).
			Order(taskOrder).
			Pluck("id", &ids).Error
	})

	if err != nil {
		return nil, err
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ids, nil
}
