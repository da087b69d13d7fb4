package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/db"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/config"
	"github.com/kanban-dev/kanban/internal/kanban"
)

// Handler holds the collaborators every endpoint needs. It is built once in
// main and shared by all requests.
type Handler struct {
	boards *kanban.Service
	users  *auth.Users
	issuer *auth.Issuer
	hub    *Hub
	store  db.Pinger
	cfg    *config.Config
}

func NewHandler(boards *kanban.Service, users *auth.Users, issuer *auth.Issuer, hub *Hub, store db.Pinger, cfg *config.Config) *Handler {
	return &Handler{
		boards: boards,
		users:  users,
		issuer: issuer,
		hub:    hub,
		store:  store,
		cfg:    cfg,
	}
}

// respondError maps service errors onto HTTP statuses. Missing and
// forbidden resources are both 404.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, kanban.ErrUnauthenticated):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.Is(err, kanban.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	case errors.Is(err, kanban.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, kanban.ErrStoreUnavailable):
		log.Printf("Store unavailable: %v", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
	default:
		log.Printf("Unhandled error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func validationMessage(err error) string {
	var kerr *kanban.Error

	if !errors.As(err, &kerr) {
		return "Invalid request"
	}

	if kerr.Field == "" {
		return kerr.Detail
	}

	return kerr.Field + ": " + kerr.Detail
}
