package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/db"
)

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"message":   "Kanban is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) DatabaseHealth(c *gin.Context) {
	if err := db.Ping(c.Request.Context(), h.store, 0); err != nil {
		log.Printf("[db health] %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"driver": h.cfg.Database.Driver,
	})
}
