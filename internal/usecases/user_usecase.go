package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/domain/repositories"
	"smilecare.backend/pkg/crypto"
)

// UserUsecase handles account administration and self service profile edits
type UserUsecase struct {
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo repositories.UserRepository, refreshRepo repositories.RefreshTokenRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo, refreshRepo: refreshRepo}
}

// List returns a page of users
func (u *UserUsecase) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	users, total, err := u.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i] = users[i].Sanitize()
	}
	return users, total, nil
}

// GetByID returns a single user
func (u *UserUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// Create adds an account of any role
func (u *UserUsecase) Create(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	role, err := entities.ParseUserRole(input.UserType)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid user type")
	}

	email := normalizeEmail(input.Email)
	mobile := strings.TrimSpace(input.MobileNumber)
	if email == "" && mobile == "" {
		return nil, domainerrors.BadRequest("Email or mobile number is required")
	}

	user := &entities.User{
		Email:        null.NewString(email, email != ""),
		MobileNumber: null.NewString(mobile, mobile != ""),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		UserType:     role,
		IsActive:     input.IsActive == nil || *input.IsActive,
		IsVerified:   true,
	}
	if input.Password != "" {
		hash, err := crypto.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = null.StringFrom(hash)
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// Update applies an admin edit
func (u *UserUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.UserUpdate) (*entities.User, error) {
	if input.UserType != nil {
		role, err := entities.ParseUserRole(*input.UserType)
		if err != nil {
			return nil, domainerrors.BadRequest("Invalid user type")
		}
		normalized := string(role)
		input.UserType = &normalized
	}

	user, err := u.userRepo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	if input.IsActive != nil && !*input.IsActive {
		if _, err := u.refreshRepo.RevokeAllForUser(ctx, id); err != nil {
			return nil, err
		}
	}
	return user.Sanitize(), nil
}

// SetStatus activates or deactivates an account. Deactivation ends every session.
func (u *UserUsecase) SetStatus(ctx context.Context, id uuid.UUID, active bool) (*entities.User, error) {
	return u.Update(ctx, id, &entities.UserUpdate{IsActive: &active})
}

// Delete removes an account
func (u *UserUsecase) Delete(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// UpdateProfile edits the caller's own names, mobile number and picture.
// The previous picture URL is returned so the caller can remove the old file.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.ProfileUpdateInput, picture *entities.FileMeta) (*entities.User, string, error) {
	current, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	update := &entities.UserUpdate{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		MobileNumber: input.MobileNumber,
	}
	if picture != nil {
		update.ProfilePicture = &picture.URL
	}
	if update.Empty() {
		return nil, "", domainerrors.BadRequest("Nothing to update")
	}

	user, err := u.userRepo.Update(ctx, userID, update)
	if err != nil {
		return nil, "", err
	}

	previous := ""
	if picture != nil && current.ProfilePicture.Valid {
		previous = current.ProfilePicture.String
	}
	return user.Sanitize(), previous, nil
}
