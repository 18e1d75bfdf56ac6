package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/infrastructure/models"
	"smilecare.backend/pkg/utils"
)

const userConflictMessage = "User already exists"

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := toUserModel(user)
	if err := conn(ctx, r.db).Create(m).Error; err != nil {
		return translateError(err, userConflictMessage)
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetByMobile gets a user by mobile number
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*entities.User, error) {
	return r.first(ctx, "mobile_number = ?", strings.TrimSpace(mobile))
}

// GetBySocialID gets a user by the subject id of an identity provider
func (r *UserRepository) GetBySocialID(ctx context.Context, provider entities.SocialProvider, socialID string) (*entities.User, error) {
	col, ok := provider.Column()
	if !ok {
		return nil, domainerrors.BadRequest("Unsupported social provider")
	}
	return r.first(ctx, col+" = ?", socialID)
}

// LinkSocialID stores the provider subject id on an existing user
func (r *UserRepository) LinkSocialID(ctx context.Context, id uuid.UUID, provider entities.SocialProvider, socialID string) error {
	col, ok := provider.Column()
	if !ok {
		return domainerrors.BadRequest("Unsupported social provider")
	}
	result := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		col:          socialID,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return translateError(result.Error, "This "+string(provider)+" account is already linked to another user")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Update applies the supplied columns and returns the fresh row
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, input *entities.UserUpdate) (*entities.User, error) {
	if input == nil || input.Empty() {
		return nil, domainerrors.ErrNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if input.Email != nil {
		updates["email"] = nullableString(strings.ToLower(strings.TrimSpace(*input.Email)))
	}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.MobileNumber != nil {
		updates["mobile_number"] = nullableString(strings.TrimSpace(*input.MobileNumber))
	}
	if input.ProfilePicture != nil {
		updates["profile_picture"] = nullableString(*input.ProfilePicture)
	}
	if input.UserType != nil {
		updates["user_type"] = *input.UserType
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsVerified != nil {
		updates["is_verified"] = *input.IsVerified
	}

	if err := r.updateColumns(ctx, id, updates); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
}

// SetOnline flips the presence flag and records last_seen
func (r *UserRepository) SetOnline(ctx context.Context, id uuid.UUID, online bool, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"is_online": online,
		"last_seen": at,
	})
}

// MarkMobileVerified records a successful OTP login on the account
func (r *UserRepository) MarkMobileVerified(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"mobile_verified": true,
		"updated_at":      time.Now(),
	})
}

// List lists users matching the filter, newest first
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	query := conn(ctx, r.db).Model(&models.User{})

	if filter.UserType != nil {
		query = query.Where("user_type = ?", string(*filter.UserType))
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		cond, args := searchCondition(filter.Search, "first_name", "last_name", "email", "mobile_number")
		query = query.Where(cond, args...)
	}

	var ms []models.User
	total, err := listPage(query, filter.PaginationParams, &ms, func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at DESC")
	})
	if err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(ms))
	for i := range ms {
		users = append(users, toUserEntity(&ms[i]))
	}
	return users, total, nil
}

// Delete hard deletes a user and returns the removed row
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := conn(ctx, r.db).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error, userConflictMessage)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	var m models.User
	if err := conn(ctx, r.db).Where(query, args...).First(&m).Error; err != nil {
		return nil, translateError(err, userConflictMessage)
	}
	return toUserEntity(&m), nil
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateError(result.Error, userConflictMessage)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func toUserModel(u *entities.User) *models.User {
	var email *string
	if u.Email.Valid {
		e := strings.ToLower(strings.TrimSpace(u.Email.String))
		email = &e
	}
	return &models.User{
		ID:             u.ID,
		Email:          email,
		MobileNumber:   u.MobileNumber.Ptr(),
		PasswordHash:   u.PasswordHash.Ptr(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		UserType:       string(u.UserType),
		ProfilePicture: u.ProfilePicture.Ptr(),
		IsActive:       u.IsActive,
		IsVerified:     u.IsVerified,
		MobileVerified: u.MobileVerified,
		IsOnline:       u.IsOnline,
		LastSeen:       u.LastSeen.Ptr(),
		GoogleID:       u.GoogleID.Ptr(),
		FacebookID:     u.FacebookID.Ptr(),
		AppleID:        u.AppleID.Ptr(),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:             m.ID,
		Email:          null.StringFromPtr(m.Email),
		MobileNumber:   null.StringFromPtr(m.MobileNumber),
		PasswordHash:   null.StringFromPtr(m.PasswordHash),
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		UserType:       entities.UserRole(m.UserType),
		ProfilePicture: null.StringFromPtr(m.ProfilePicture),
		IsActive:       m.IsActive,
		IsVerified:     m.IsVerified,
		MobileVerified: m.MobileVerified,
		IsOnline:       m.IsOnline,
		LastSeen:       null.TimeFromPtr(m.LastSeen),
		GoogleID:       null.StringFromPtr(m.GoogleID),
		FacebookID:     null.StringFromPtr(m.FacebookID),
		AppleID:        null.StringFromPtr(m.AppleID),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
