package server

import (
	"time"

	"gribova.dev/Foodgram/pkg/model"
)

// Response shapes are named and explicit per entity; the calling code
// path picks the shape instead of inspecting the HTTP verb.

type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type UserWithRecipesResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

type TagResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type IngredientInRecipeResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          uint   `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                         `json:"id"`
	Tags             []TagResponse                `json:"tags"`
	Author           UserResponse                 `json:"author"`
	Ingredients      []IngredientInRecipeResponse `json:"ingredients"`
	IsFavorited      bool                         `json:"is_favorited"`
	IsInShoppingCart bool                         `json:"is_in_shopping_cart"`
	Name             string                       `json:"name"`
	Image            string                       `json:"image"`
	Text             string                       `json:"text"`
	CookingTime      uint                         `json:"cooking_time"`
	PubDate          time.Time                    `json:"pub_date"`
}

// RecipeShortResponse is the compact shape used inside follow listings
// and toggle responses.
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime uint   `json:"cooking_time"`
}

func UserFromModel(user *model.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func TagFromModel(tag *model.Tag) TagResponse {
	return TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

func IngredientFromModel(ingredient *model.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func RecipeFromModel(recipe *model.Recipe, authorSubscribed bool) RecipeResponse {
	response := RecipeResponse{
		ID:               recipe.ID,
		Author:           UserFromModel(&recipe.Author, authorSubscribed),
		IsFavorited:      recipe.IsFavorited,
		IsInShoppingCart: recipe.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		PubDate:          recipe.PubDate,
	}

	response.Tags = make([]TagResponse, 0, len(recipe.Tags))
	for index := range recipe.Tags {
		response.Tags = append(response.Tags, TagFromModel(&recipe.Tags[index]))
	}

	response.Ingredients = make([]IngredientInRecipeResponse, 0, len(recipe.Ingredients))
	for index := range recipe.Ingredients {
		entry := recipe.Ingredients[index]
		response.Ingredients = append(response.Ingredients, IngredientInRecipeResponse{
			ID:              entry.IngredientID,
			Name:            entry.Ingredient.Name,
			MeasurementUnit: entry.Ingredient.MeasurementUnit,
			Amount:          entry.Amount,
		})
	}

	return response
}

func RecipeShortFromModel(recipe *model.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
