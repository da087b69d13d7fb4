package types

import "github.com/google/uuid"

const (
	ContextUserKey = "user"
	TokenCookie    = "token"
)

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}
