package kanban

import (
	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
)

const (
	// OrderSpacing is the gap between neighbouring order values.
	OrderSpacing = 100
	// BaseOrder is given to the first task of an empty column.
	BaseOrder = 100
)

// taskOrder is the sibling sort used everywhere tasks are listed. Ties on
// sort_order fall back to insertion time and then id.
const taskOrder = "sort_order ASC, created_at ASC, id ASC"

// appendOrder returns the order value that places a new task after last.
func appendOrder(last *models.Task) int {
	if last == nil {
		return BaseOrder
	}
	return last.Order + OrderSpacing
}

// clampPosition maps a requested rank onto [0, n].
func clampPosition(position, n int) int {
	if position < 0 {
		return 0
	}
	if position > n {
		return n
	}
	return position
}

// placeAt inserts moving into siblings at position and re-ranks the result as
// index*OrderSpacing. siblings must already be in taskOrder and must not
// contain moving.
func placeAt(siblings []models.Task, moving models.Task, position int) []models.Task {
	position = clampPosition(position, len(siblings))

	out := make([]models.Task, 0, len(siblings)+1)
	out = append(out, siblings[:position]...)
	out = append(out, moving)
	out = append(out, siblings[position:]...)

	for i := range out {
		out[i].Order = i * OrderSpacing
	}

	return out
}

// lastTask returns the task with the highest order in a column, or nil.
func lastTask(tx *gorm.DB, boardID, columnID uuid.UUID) (*models.Task, error) {
	var tasks []models.Task

	err := tx.Where("board_id = ? AND column_id = ?", boardID, columnID).
		Order("sort_order DESC, created_at DESC, id DESC").
		Limit(1).
		Find(&tasks).Error

	if err != nil || len(tasks) == 0 {
		return nil, err
	}

	return &tasks[0], nil
}

// siblingsOf loads a column's tasks in taskOrder, leaving out exclude.
func siblingsOf(tx *gorm.DB, boardID, columnID, exclude uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task

	err := tx.Where("board_id = ? AND column_id = ? AND id <> ?", boardID, columnID, exclude).
		Order(taskOrder).
		Find(&tasks).Error

	return tasks, err
}

// moveTask re-parents task into dest at position and re-ranks dest. Only rows
// whose column or order actually changes are written. It must run inside a
// transaction.
func moveTask(tx *gorm.DB, task *models.Task, dest *models.Column, position int) error {
	siblings, err := siblingsOf(tx, task.BoardID, dest.ID, task.ID)

	if err != nil {
		return err
	}

	before := make(map[uuid.UUID]int, len(siblings))
	for _, t := range siblings {
		before[t.ID] = t.Order
	}

	ranked := placeAt(siblings, *task, position)

	for _, t := range ranked {
		if t.ID == task.ID {
			if err := tx.Model(&models.Task{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
				"column_id":  dest.ID,
				"sort_order": t.Order,
			}).Error; err != nil {
				return err
			}
			task.ColumnID = dest.ID
			task.Order = t.Order
			continue
		}

		if before[t.ID] == t.Order {
			continue
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", t.ID).Update("sort_order", t.Order).Error; err != nil {
			return err
		}
	}

	return nil
}
