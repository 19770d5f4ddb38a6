package repository

import (
	"context"

	"go.uber.org/zap"

	"gribova.dev/Foodgram/pkg/model"
)

func (r *Repository) AddFollow(ctx context.Context, userID uint, authorID uint) (*model.Follow, error) {
	follow := model.Follow{UserID: userID, AuthorID: authorID}

	if result := r.DB.WithContext(ctx).Create(&follow); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &follow, nil
}

func (r *Repository) RemoveFollow(ctx context.Context, userID uint, authorID uint) error {
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) IsFollowing(ctx context.Context, userID uint, authorID uint) (bool, error) {
	var count int64

	result := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// ListFollowedAuthors pages through the authors the user follows,
// newest subscription first.
func (r *Repository) ListFollowedAuthors(ctx context.Context, userID uint, offset int, limit int) ([]*model.User, int64, error) {
	var (
		authors []*model.User
		count   int64
	)

	result := r.DB.WithContext(ctx).Table("follows f").
		Joins("INNER JOIN users ON users.id = f.author_id").
		Where("f.user_id = ?", userID).
		Where("users.deleted_at is null").
		Count(&count)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	result = r.DB.WithContext(ctx).Table("users").
		Joins("INNER JOIN follows f ON f.author_id = users.id").
		Where("f.user_id = ?", userID).
		Where("users.deleted_at is null").
		Order("f.id desc").
		Offset(offset).
		Limit(limit).
		Find(&authors)
	if result.Error != nil {
		r.Logger.Error("error listing followed authors", zap.Uint("user_id", userID), zap.Error(result.Error))

		return nil, 0, result.Error
	}

	return authors, count, nil
}

func (r *Repository) CountRecipesByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64

	result := r.DB.WithContext(ctx).Model(&model.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// RecipePreviewsByAuthor returns the author's recipes in store order,
// optionally truncated. A nil limit returns all of them.
func (r *Repository) RecipePreviewsByAuthor(ctx context.Context, authorID uint, limit *int) ([]*model.Recipe, error) {
	var recipes []*model.Recipe

	query := r.DB.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("id desc")
	if limit != nil {
		query = query.Limit(*limit)
	}

	if result := query.Find(&recipes); result.Error != nil {
		return nil, result.Error
	}

	return recipes, nil
}
