package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/models"
	"github.com/kanban-dev/kanban/internal/types"
	"github.com/kanban-dev/kanban/internal/utils"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var body CreateUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Register(ctx.Request.Context(), auth.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})

	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, ok := h.startSession(ctx, user)
	if !ok {
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": userResponse(user), "token": token})
}

func (h *Handler) LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Authenticate(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, ok := h.startSession(ctx, user)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user), "token": token})
}

func (h *Handler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
			Role:  currentUser.Role,
		},
	})
}

func (h *Handler) LogoutUser(ctx *gin.Context) {
	h.setTokenCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// startSession issues a token and writes the session cookie. Callers also
// return the token in the body for clients that send a bearer header.
func (h *Handler) startSession(ctx *gin.Context, user *models.User) (string, bool) {
	token, err := h.issuer.Generate(user)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return "", false
	}

	h.setTokenCookie(ctx, token, int(auth.SessionTTL.Seconds()))

	return token, true
}

func (h *Handler) setTokenCookie(ctx *gin.Context, value string, maxAge int) {
	sameSite := http.SameSiteNoneMode

	// Browsers drop SameSite=None cookies that are not Secure.
	if !h.cfg.Auth.CookieSecure {
		sameSite = http.SameSiteLaxMode
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     types.TokenCookie,
		Value:    value,
		Path:     "/",
		Domain:   h.cfg.Auth.Domain,
		MaxAge:   maxAge,
		Secure:   h.cfg.Auth.CookieSecure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}
