package repository

import (
	"context"

	"github.com/google/uuid"

	"gribova.dev/Foodgram/pkg/model"
)

func (r *Repository) AddUser(ctx context.Context, user model.User) (*model.User, error) {
	user.UUID = uuid.New()

	if result := r.DB.WithContext(ctx).Create(&user); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).First(&user, userID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	result := r.DB.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context, offset int, limit int) ([]*model.User, int64, error) {
	var (
		users []*model.User
		count int64
	)

	if result := r.DB.WithContext(ctx).Model(&model.User{}).Count(&count); result.Error != nil {
		return nil, 0, result.Error
	}

	result := r.DB.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&users)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return users, count, nil
}

func (r *Repository) SetPassword(ctx context.Context, userID uint, passwordHash string) error {
	result := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
