package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/kanban"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/utils"
)

// LabelList accepts either a JSON array or a comma-separated string.
type LabelList []string

func (l *LabelList) UnmarshalJSON(data []byte) error {
	var list []string

	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var joined string

	if err := json.Unmarshal(data, &joined); err != nil {
		return errors.New("labels must be a list or a comma-separated string")
	}

	*l = strings.Split(joined, ",")
	return nil
}

type CreateTaskRequest struct {
	ColumnID    uuid.UUID `json:"column_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Subtitle    string    `json:"subtitle"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Labels      LabelList `json:"labels"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Subtitle    *string    `json:"subtitle"`
	Link        *string    `json:"link"`
	Description *string    `json:"description"`
	Labels      *LabelList `json:"labels"`
	Priority    *string    `json:"priority"`
	DueDate     *string    `json:"due_date"`
	ColumnID    *uuid.UUID `json:"column_id"`
	Position    *int       `json:"position"`
}

type MoveTaskRequest struct {
	ColumnID uuid.UUID `json:"column_id" binding:"required"`
	Position *int      `json:"position" binding:"required"`
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Subtitle    *string   `json:"subtitle"`
	Link        *string   `json:"link"`
	Description *string   `json:"description"`
	Labels      []string  `json:"labels"`
	Priority    *string   `json:"priority"`
	DueDate     *string   `json:"due_date"`
	BoardID     uuid.UUID `json:"board_id"`
	ColumnID    uuid.UUID `json:"column_id"`
	UserID      uuid.UUID `json:"user_id"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func taskResponse(task *models.Task) TaskResponse {
	labels := []string(task.Labels)
	if labels == nil {
		labels = []string{}
	}

	var dueDate *string
	if task.DueDate != nil {
		formatted := kanban.FormatDate(task.DueDate)
		dueDate = &formatted
	}

	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Subtitle:    task.Subtitle,
		Link:        task.Link,
		Description: task.Description,
		Labels:      labels,
		Priority:    task.Priority,
		DueDate:     dueDate,
		BoardID:     task.BoardID,
		ColumnID:    task.ColumnID,
		UserID:      task.UserID,
		Order:       task.Order,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boardID, err := utils.GetIDParam(ctx, "board_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, err := h.boards.CreateTask(ctx.Request.Context(), userID, kanban.TaskInput{
		BoardID:     boardID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Link:        req.Link,
		Description: req.Description,
		Labels:      req.Labels,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.hub.BroadcastRefresh(task.BoardID)

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func (h *Handler) UpdateTask(ctx *gin.Context) {
	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	patch := kanban.TaskPatch{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Link:        req.Link,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ColumnID:    req.ColumnID,
		Position:    req.Position,
	}

	if req.Labels != nil {
		labels := []string(*req.Labels)
		patch.Labels = &labels
	}

	task, err := h.boards.UpdateTask(ctx.Request.Context(), userID, taskID, patch)

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.hub.BroadcastRefresh(task.BoardID)

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func (h *Handler) MoveTask(ctx *gin.Context) {
	var req MoveTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, err := h.boards.MoveTask(ctx.Request.Context(), userID, taskID, req.ColumnID, *req.Position)

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.hub.BroadcastRefresh(task.BoardID)

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, err := h.boards.DeleteTask(ctx.Request.Context(), userID, taskID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	h.hub.BroadcastRefresh(task.BoardID)

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) GetColumnTasks(ctx *gin.Context) {
	columnID, err := utils.GetIDParam(ctx, "column_id")

	if err != nil {
		respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ids, err := h.boards.ColumnTaskIDs(ctx.Request.Context(), userID, columnID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"column_id": columnID, "task_ids": ids})
}
