package model

import "gorm.io/gorm"

// Tag classifies recipes. The catalog is curated through the import
// command; color is an #rrggbb code.
type Tag struct {
	gorm.Model
	Name  string `gorm:"size:200"`
	Color string `gorm:"size:7;uniqueIndex"`
	Slug  string `gorm:"size:200;uniqueIndex"`
}

// Ingredient names are deliberately non-unique: the same name may exist
// with different measurement units.
type Ingredient struct {
	gorm.Model
	Name            string `gorm:"size:200;index"`
	MeasurementUnit string `gorm:"size:200"`
}

// ShoppingListItem is one aggregated line of a user's shopping list,
// produced by grouping cart ingredients by (name, unit).
type ShoppingListItem struct {
	IngredientName  string
	MeasurementUnit string
	TotalAmount     uint64
}
