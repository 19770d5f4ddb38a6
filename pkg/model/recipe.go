package model

import (
	"time"
)

// Recipe and its join rows are hard-deleted: the (name, author) and
// (user, recipe) unique indexes must be reusable after a delete.
type Recipe struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"size:200;uniqueIndex:idx_recipe_name_author"`
	AuthorID    uint   `gorm:"uniqueIndex:idx_recipe_name_author"`
	Text        string
	Image       string
	CookingTime uint
	PubDate     time.Time `gorm:"autoCreateTime"`

	Tags        []Tag                `gorm:"many2many:recipe_tags;"`
	Ingredients []IngredientInRecipe `gorm:"foreignKey:RecipeID"`
	Author      User                 `gorm:"foreignKey:AuthorID"`

	// Viewer-relative flags, selected by the repository at query time.
	// Never migrated or written.
	IsFavorited      bool `gorm:"->;-:migration"`
	IsInShoppingCart bool `gorm:"->;-:migration"`
}

// IngredientInRecipe links a recipe to a catalog ingredient with a
// positive amount.
type IngredientInRecipe struct {
	ID           uint `gorm:"primarykey"`
	RecipeID     uint `gorm:"uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint `gorm:"uniqueIndex:idx_recipe_ingredient"`
	Amount       uint

	Ingredient Ingredient `gorm:"foreignKey:IngredientID"`
}

// Favorite and CartItem are structurally identical but independent
// relations; each pair is unique on (user, recipe).
type Favorite struct {
	ID        uint `gorm:"primarykey"`
	UserID    uint `gorm:"uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint `gorm:"uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time

	Recipe Recipe `gorm:"foreignKey:RecipeID"`
}

type CartItem struct {
	ID        uint `gorm:"primarykey"`
	UserID    uint `gorm:"uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uint `gorm:"uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time

	Recipe Recipe `gorm:"foreignKey:RecipeID"`
}
