package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arzan03/ShopFront/internal/models"
	"github.com/arzan03/ShopFront/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileUpdate struct {
	Name                    string `json:"name" validate:"omitempty,max=32"`
	Email                   string `json:"email" validate:"omitempty,min=3,max=32,emailish"`
	About                   string `json:"about" validate:"omitempty,max=2000"`
	Password                string `json:"password"`
	NewPassword             string `json:"newPassword" validate:"omitempty,containsany=0123456789"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation"`
}

type UserService struct {
	users store.UserStore
	now   func() time.Time
}

// NewUserService creates the profile service.
func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Get loads a user including credential fields; callers strip them with Public.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Update applies the non-empty fields of in to user. Changing the password
// requires the current one and rotates the salt.
func (s *UserService) Update(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	if in.NewPassword != in.NewPasswordConfirmation {
		return nil, invalid("New passwords do not match")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	updated := *user
	if in.Name != "" {
		updated.Name = in.Name
	}
	if in.Email != "" {
		updated.Email = in.Email
	}
	if in.About != "" {
		updated.About = in.About
	}
	if in.NewPassword != "" {
		if !Authenticate(in.Password, user.Salt, user.HashedPassword) {
			return nil, invalid("Incorrect old password")
		}
		updated.Salt = NewSalt()
		updated.HashedPassword = HashPassword(in.NewPassword, updated.Salt)
	}
	updated.UpdatedAt = s.now()

	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, conflict(err)
	}

	public := updated.Public()
	return &public, nil
}
