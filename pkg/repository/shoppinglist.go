package repository

import (
	"context"

	"go.uber.org/zap"

	"gribova.dev/Foodgram/pkg/model"
)

// BuildShoppingList aggregates every ingredient association belonging
// to a recipe in the user's cart: grouped by (name, unit), amounts
// summed, ordered by name. Computed fresh on every call.
func (r *Repository) BuildShoppingList(ctx context.Context, userID uint) ([]*model.ShoppingListItem, error) {
	var items []*model.ShoppingListItem

	result := r.DB.WithContext(ctx).Table("ingredient_in_recipes iir").
		Select("i.name as ingredient_name, "+
			"i.measurement_unit as measurement_unit, "+
			"sum(iir.amount) as total_amount").
		Joins("INNER JOIN ingredients i ON i.id = iir.ingredient_id").
		Joins("INNER JOIN cart_items ci ON ci.recipe_id = iir.recipe_id").
		Where("ci.user_id = ?", userID).
		Where("i.deleted_at is null").
		Group("i.name, i.measurement_unit").
		Order("i.name asc").
		Scan(&items)
	if result.Error != nil {
		r.Logger.Error("error building shopping list", zap.Uint("user_id", userID), zap.Error(result.Error))

		return nil, result.Error
	}

	return items, nil
}
