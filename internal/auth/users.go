package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/kanban-dev/kanban/internal/kanban"
	"github.com/kanban-dev/kanban/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Users is the identity store. Registration runs the signup hook: the first
// user ever becomes the owner and every user gets a default board.
type Users struct {
	db   *gorm.DB
	cost int
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db, cost: bcrypt.DefaultCost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *Users) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)

	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrEmailTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return afterCreate(tx, &user)
	})

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// afterCreate promotes the very first user to owner and provisions the
// default board.
func afterCreate(tx *gorm.DB, user *models.User) error {
	var count int64
	if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count == 1 {
		if err := tx.Model(user).Update("role", models.RoleOwner).Error; err != nil {
			return err
		}
		user.Role = models.RoleOwner
		log.Printf("[auth] first user %s promoted to owner", user.ID)
	}

	_, _, err := kanban.ProvisionBoard(tx, user.ID, kanban.DefaultBoardName)
	return err
}

func (u *Users) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User

	err := u.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (u *Users) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User

	if err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	if err := u.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}
