package repository

import (
	"context"

	"gribova.dev/Foodgram/pkg/model"
)

// Favorite and cart membership are the same uniquely-constrained
// (user, recipe) toggle over two independent tables. Duplicate adds
// surface as ErrConflict straight from the unique index, which also
// settles races between concurrent adds.

func (r *Repository) AddFavorite(ctx context.Context, userID uint, recipeID uint) (*model.Favorite, error) {
	favorite := model.Favorite{UserID: userID, RecipeID: recipeID}

	if result := r.DB.WithContext(ctx).Create(&favorite); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &favorite, nil
}

func (r *Repository) RemoveFavorite(ctx context.Context, userID uint, recipeID uint) error {
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) AddCartItem(ctx context.Context, userID uint, recipeID uint) (*model.CartItem, error) {
	item := model.CartItem{UserID: userID, RecipeID: recipeID}

	if result := r.DB.WithContext(ctx).Create(&item); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &item, nil
}

func (r *Repository) RemoveCartItem(ctx context.Context, userID uint, recipeID uint) error {
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
