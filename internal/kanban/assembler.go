package kanban

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/models"
	"gorm.io/gorm"
)

type ColumnView struct {
	Column  models.Column
	TaskIDs []uuid.UUID
	Tasks   []models.Task
}

type BoardView struct {
	Board   models.Board
	Columns []ColumnView
	// OrphanedTasks counts tasks of the board whose column no longer exists.
	// They are left out of Columns.
	OrphanedTasks int64
}

// GetBoard assembles the nested board view. Columns and the tasks inside each
// column come back in order; every column has a non-nil task list.
func (s *Service) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*BoardView, error) {
	const op = "GetBoard"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}

	var view *BoardView

	err := s.transaction(ctx, op, func(tx *gorm.DB) error {
		board, err := readableBoard(tx, op, userID, boardID)
		if err != nil {
			return err
		}

		view, err = assemble(tx, board)
		return err
	})

	if err != nil {
		return nil, err
	}

	if view.OrphanedTasks > 0 {
		log.Printf("[kanban] board %s has %d task(s) referencing missing columns", view.Board.ID, view.OrphanedTasks)
	}

	return view, nil
}

func assemble(tx *gorm.DB, board *models.Board) (*BoardView, error) {
	var columns []models.Column

	if err := tx.Where("board_id = ?", board.ID).
		Order("sort_order ASC, created_at ASC, id ASC").
		Find(&columns).Error; err != nil {
		return nil, err
	}

	view := &BoardView{Board: *board, Columns: make([]ColumnView, len(columns))}
	index := make(map[uuid.UUID]int, len(columns))
	columnIDs := make([]uuid.UUID, len(columns))

	for i, c := range columns {
		view.Columns[i] = ColumnView{Column: c, TaskIDs: []uuid.UUID{}, Tasks: []models.Task{}}
		index[c.ID] = i
		columnIDs[i] = c.ID
	}

	var total int64
	if err := tx.Model(&models.Task{}).Where("board_id = ?", board.ID).Count(&total).Error; err != nil {
		return nil, err
	}

	var tasks []models.Task
	if len(columnIDs) > 0 {
		if err := tx.Where("board_id = ? AND column_id IN ?", board.ID, columnIDs).
			Order(taskOrder).
			Find(&tasks).Error; err != nil {
			return nil, err
		}
	}

	for _, t := range tasks {
		cv := &view.Columns[index[t.ColumnID]]
		cv.Tasks = append(cv.Tasks, t)
		cv.TaskIDs = append(cv.TaskIDs, t.ID)
	}

	view.OrphanedTasks = total - int64(len(tasks))

	return view, nil
}
