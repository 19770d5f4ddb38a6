package repository

import (
	"context"

	"gorm.io/gorm"

	"gribova.dev/Foodgram/pkg/model"
)

type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe model.Recipe, tags []model.Tag, entries []model.IngredientInRecipe) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *model.Recipe, tags []model.Tag, entries []model.IngredientInRecipe) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, recipeID uint) error
	GetRecipeByID(ctx context.Context, recipeID uint, viewerID *uint) (*model.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter, offset int, limit int) ([]*model.Recipe, int64, error)
}

// RecipeFilter narrows a recipe listing. Favorited and InCart are
// ignored unless ViewerID is set, matching the anonymous-viewer rule.
type RecipeFilter struct {
	AuthorID  *uint
	TagSlugs  []string
	Favorited bool
	InCart    bool
	ViewerID  *uint
}

// CreateRecipe persists the recipe row, its tag links and the bulk of
// ingredient associations in one transaction; a (name, author) clash
// rolls everything back with ErrConflict.
func (r *Repository) CreateRecipe(ctx context.Context, recipe model.Recipe, tags []model.Tag, entries []model.IngredientInRecipe) (*model.Recipe, error) {
	recipe.Tags = tags
	recipe.Ingredients = entries

	if result := r.DB.WithContext(ctx).Create(&recipe); result.Error != nil {
		return nil, translate(result.Error)
	}

	return &recipe, nil
}

// UpdateRecipe rewrites the scalar fields and replaces the full tag and
// ingredient sets. No diffing: the old associations are discarded and
// the new set written from scratch, all inside one transaction.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *model.Recipe, tags []model.Tag, entries []model.IngredientInRecipe) (*model.Recipe, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"image":        recipe.Image,
		}

		if result := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(updates); result.Error != nil {
			return result.Error
		}

		if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}

		if result := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.IngredientInRecipe{}); result.Error != nil {
			return result.Error
		}

		for i := range entries {
			entries[i].RecipeID = recipe.ID
		}

		if result := tx.Create(&entries); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	return r.GetRecipeByID(ctx, recipe.ID, &recipe.AuthorID)
}

// DeleteRecipe removes the recipe together with its associations,
// favorites and cart rows.
func (r *Repository) DeleteRecipe(ctx context.Context, recipeID uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("recipe_id = ?", recipeID).Delete(&model.IngredientInRecipe{}); result.Error != nil {
			return result.Error
		}

		if result := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID); result.Error != nil {
			return result.Error
		}

		if result := tx.Where("recipe_id = ?", recipeID).Delete(&model.Favorite{}); result.Error != nil {
			return result.Error
		}

		if result := tx.Where("recipe_id = ?", recipeID).Delete(&model.CartItem{}); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&model.Recipe{}, recipeID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})

	return translate(err)
}

func (r *Repository) GetRecipeByID(ctx context.Context, recipeID uint, viewerID *uint) (*model.Recipe, error) {
	var recipe model.Recipe

	result := withViewerFlags(r.DB.WithContext(ctx).Model(&model.Recipe{}), viewerID).
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "recipes.id = ?", recipeID)
	if result.Error != nil {
		return nil, translate(result.Error)
	}

	return &recipe, nil
}

func (r *Repository) ListRecipes(ctx context.Context, filter RecipeFilter, offset int, limit int) ([]*model.Recipe, int64, error) {
	var (
		recipes []*model.Recipe
		count   int64
	)

	filtered := applyRecipeFilter(r.DB.WithContext(ctx).Model(&model.Recipe{}), filter)

	if result := filtered.Session(&gorm.Session{}).Count(&count); result.Error != nil {
		return nil, 0, result.Error
	}

	result := withViewerFlags(filtered, filter.ViewerID).
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Order("recipes.id desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return recipes, count, nil
}

// withViewerFlags selects is_favorited / is_in_shopping_cart as EXISTS
// subqueries against the viewer's rows. Anonymous viewers keep the
// zero-value flags.
func withViewerFlags(query *gorm.DB, viewerID *uint) *gorm.DB {
	if viewerID == nil {
		return query
	}

	return query.Select("recipes.*, "+
		"EXISTS(SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?) AS is_favorited, "+
		"EXISTS(SELECT 1 FROM cart_items WHERE cart_items.recipe_id = recipes.id AND cart_items.user_id = ?) AS is_in_shopping_cart",
		*viewerID, *viewerID)
}

func applyRecipeFilter(query *gorm.DB, filter RecipeFilter) *gorm.DB {
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}

	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (SELECT recipe_id FROM recipe_tags INNER JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ?)", filter.TagSlugs)
	}

	if filter.ViewerID != nil {
		if filter.Favorited {
			query = query.Where("recipes.id IN (SELECT recipe_id FROM favorites WHERE user_id = ?)", *filter.ViewerID)
		}

		if filter.InCart {
			query = query.Where("recipes.id IN (SELECT recipe_id FROM cart_items WHERE user_id = ?)", *filter.ViewerID)
		}
	}

	return query
}
