package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/kanban"
)

// GetIDParam reads a uuid path parameter such as "board_id".
func GetIDParam(ctx *gin.Context, name string) (uuid.UUID, error) {
	return kanban.ParseID(name, ctx.Param(name))
}
