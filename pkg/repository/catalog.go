package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"gribova.dev/Foodgram/pkg/model"
)

func (r *Repository) ListTags(ctx context.Context) ([]*model.Tag, error) {
	var tags []*model.Tag

	if result := r.DB.WithContext(ctx).Order("id").Find(&tags); result.Error != nil {
		return nil, result.Error
	}

	return tags, nil
}

func (r *Repository) GetTagByID(ctx context.Context, tagID uint) (*model.Tag, error) {
	var tag model.Tag

	if result := r.DB.WithContext(ctx).First(&tag, tagID); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &tag, nil
}

// GetTagsByIDs resolves tag ids preserving nothing about input order;
// callers check the returned length against the requested one.
func (r *Repository) GetTagsByIDs(ctx context.Context, tagIDs []uint) ([]model.Tag, error) {
	var tags []model.Tag

	if result := r.DB.WithContext(ctx).Where("id in (?)", tagIDs).Find(&tags); result.Error != nil {
		return nil, result.Error
	}

	return tags, nil
}

func (r *Repository) GetIngredientByID(ctx context.Context, ingredientID uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient

	if result := r.DB.WithContext(ctx).First(&ingredient, ingredientID); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &ingredient, nil
}

func (r *Repository) CountIngredientsByIDs(ctx context.Context, ingredientIDs []uint) (int64, error) {
	var count int64

	result := r.DB.WithContext(ctx).Model(&model.Ingredient{}).
		Where("id in (?)", ingredientIDs).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// SearchIngredients matches the already-normalized query as a
// case-insensitive substring of the ingredient name.
func (r *Repository) SearchIngredients(ctx context.Context, name string) ([]*model.Ingredient, error) {
	var ingredients []*model.Ingredient

	query := r.DB.WithContext(ctx).Order("id desc")
	if name != "" {
		query = query.Where("lower(name) LIKE ?", "%"+name+"%")
	}

	if result := query.Find(&ingredients); result.Error != nil {
		return nil, result.Error
	}

	return ingredients, nil
}

func (r *Repository) ImportIngredients(ctx context.Context, ingredients []model.Ingredient) (int64, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ingredients)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *Repository) ImportTags(ctx context.Context, tags []model.Tag) (int64, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tags)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
