package user

import (
	"context"
	"errors"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		CheckUserExists(ctx context.Context, username string, email string) (bool, error)
		UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
		GetUserStats(ctx context.Context, id uuid.UUID) (UserStats, error)
	}

	UserStats struct {
		RecipeCount   int64
		AverageRating float64
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) CheckUserExists(ctx context.Context, username string, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// GetUserStats counts the user's recipes and averages every rating they received.
func (r *userRepository) GetUserStats(ctx context.Context, id uuid.UUID) (UserStats, error) {
	var stats UserStats
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("user_id = ?", id).
		Count(&stats.RecipeCount).Error; err != nil {
		return UserStats{}, err
	}

	var avg struct {
		AverageRating float64
	}
	if err := r.db.WithContext(ctx).
		Table("ratings").
		Select("CAST(COALESCE(AVG(ratings.rating), 0) AS FLOAT) AS average_rating").
		Joins("JOIN recipes ON recipes.id = ratings.recipe_id").
		Where("recipes.user_id = ?", id).
		Scan(&avg).Error; err != nil {
		return UserStats{}, err
	}
	stats.AverageRating = avg.AverageRating
	return stats, nil
}
