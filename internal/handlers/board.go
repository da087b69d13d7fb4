package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/kanban"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/utils"
)

type CreateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateBoardRequest renames a board, changes its visibility, or both.
type UpdateBoardRequest struct {
	Name      *string `json:"name"`
	IsPrivate *bool   `json:"is_private"`
}

type BoardResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UserID    uuid.UUID `json:"user_id"`
	IsPrivate bool      `json:"is_private"`
	IsMine    bool      `json:"is_mine"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ColumnResponse struct {
	ID      uuid.UUID      `json:"id"`
	Name    string         `json:"name"`
	Order   int            `json:"order"`
	TaskIDs []uuid.UUID    `json:"task_ids"`
	Tasks   []TaskResponse `json:"tasks"`
}

type BoardViewResponse struct {
	Board         BoardResponse    `json:"board"`
	Columns       []ColumnResponse `json:"columns"`
	OrphanedTasks int64            `json:"orphaned_tasks"`
}

func boardResponse(board *models.Board, userID uuid.UUID) BoardResponse {
	return BoardResponse{
		ID:        board.ID,
		Name:      board.Name,
		UserID:    board.UserID,
		IsPrivate: board.IsPrivate,
		IsMine:    board.UserID == userID,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

func (h *Handler) ListBoards(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scope, err := kanban.ParseScope(ctx.Query("scope"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	boards, err := h.boards.ListBoards(ctx.Request.Context(), userID, scope, ctx.Query("q"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]BoardResponse, 0, len(boards))

	for _, b := range boards {
		response = append(response, BoardResponse{
			ID:        b.ID,
			Name:      b.Name,
			UserID:    b.UserID,
			IsPrivate: b.IsPrivate,
			IsMine:    b.IsMine,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) CreateBoard(ctx *gin.Context) {
	var body CreateBoardRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	board, created, err := h.boards.CreateBoard(ctx.Request.Context(), userID, body.Name)

	if err != nil {
		respondError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, boardResponse(board, userID))
}

func (h *Handler) GetBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	boardID, err := utils.GetIDParam(ctx, "board_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	view, err := h.boards.GetBoard(ctx.Request.Context(), userID, boardID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := BoardViewResponse{
		Board:         boardResponse(&view.Board, userID),
		Columns:       make([]ColumnResponse, 0, len(view.Columns)),
		OrphanedTasks: view.OrphanedTasks,
	}

	for _, cv := range view.Columns {
		tasks := make([]TaskResponse, 0, len(cv.Tasks))
		for i := range cv.Tasks {
			tasks = append(tasks, taskResponse(&cv.Tasks[i]))
		}

		response.Columns = append(response.Columns, ColumnResponse{
			ID:      cv.Column.ID,
			Name:    cv.Column.Name,
			Order:   cv.Column.Order,
			TaskIDs: cv.TaskIDs,
			Tasks:   tasks,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) UpdateBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	boardID, err := utils.GetIDParam(ctx, "board_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	var body UpdateBoardRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Name == nil && body.IsPrivate == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	board, err := h.boards.UpdateBoard(ctx.Request.Context(), userID, boardID, kanban.BoardPatch{
		Name:      body.Name,
		IsPrivate: body.IsPrivate,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.hub.BroadcastRefresh(board.ID)

	ctx.JSON(http.StatusOK, boardResponse(board, userID))
}

func (h *Handler) DeleteBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	boardID, err := utils.GetIDParam(ctx, "board_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	if err := h.boards.DeleteBoard(ctx.Request.Context(), userID, boardID); err != nil {
		respondError(ctx, err)
		return
	}

	h.hub.BroadcastRefresh(boardID)

	ctx.Status(http.StatusNoContent)
}
