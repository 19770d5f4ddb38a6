package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.openly.dev/pointy"

	"gribova.dev/Foodgram/pkg/model"
	"gribova.dev/Foodgram/pkg/repository"
)

type RecipeTestSuite struct {
	RepositorySuite
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}

func (suite *RecipeTestSuite) TestCreateRecipe_PersistsAllAssociations() {
	author := suite.addUser("alice")
	tag := suite.addTag("dinner")
	flour := suite.addIngredient("flour", "g")
	sugar := suite.addIngredient("sugar", "g")

	recipe := suite.addRecipe(author, "pie", tag,
		model.IngredientInRecipe{IngredientID: flour.ID, Amount: 200},
		model.IngredientInRecipe{IngredientID: sugar.ID, Amount: 50})

	loaded, err := suite.repository.GetRecipeByID(context.Background(), recipe.ID, nil)
	suite.Require().NoError(err)

	suite.Equal("pie", loaded.Name)
	suite.Equal(author.ID, loaded.AuthorID)
	suite.Equal("alice", loaded.Author.Username)
	suite.Len(loaded.Tags, 1)
	suite.Equal("dinner", loaded.Tags[0].Slug)
	suite.Len(loaded.Ingredients, 2)
	suite.False(loaded.IsFavorited)
	suite.False(loaded.IsInShoppingCart)
	suite.False(loaded.PubDate.IsZero())

	var count int64
	suite.NoError(suite.repository.DB.Model(&model.IngredientInRecipe{}).Count(&count).Error)
	suite.Equal(int64(2), count)
}

func (suite *RecipeTestSuite) TestCreateRecipe_DuplicateNamePerAuthorConflicts() {
	author := suite.addUser("alice")
	other := suite.addUser("bob")
	tag := suite.addTag("dinner")
	flour := suite.addIngredient("flour", "g")

	suite.addRecipe(author, "pie", tag, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 100})

	_, err := suite.repository.CreateRecipe(context.Background(), model.Recipe{
		Name:        "pie",
		AuthorID:    author.ID,
		Text:        "again",
		Image:       "x.png",
		CookingTime: 5,
	}, []model.Tag{tag}, []model.IngredientInRecipe{{IngredientID: flour.ID, Amount: 1}})
	suite.Require().ErrorIs(err, repository.ErrConflict)

	// Same name under a different author is fine.
	suite.addRecipe(other, "pie", tag, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 1})
}

func (suite *RecipeTestSuite) TestCreateRecipe_ConflictRollsBackAssociations() {
	author := suite.addUser("alice")
	tag := suite.addTag("dinner")
	flour := suite.addIngredient("flour", "g")

	suite.addRecipe(author, "pie", tag, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 100})

	var before int64
	suite.NoError(suite.repository.DB.Model(&model.IngredientInRecipe{}).Count(&before).Error)

	_, err := suite.repository.CreateRecipe(context.Background(), model.Recipe{
		Name:        "pie",
		AuthorID:    author.ID,
		Text:        "dup",
		Image:       "x.png",
		CookingTime: 5,
	}, []model.Tag{tag}, []model.IngredientInRecipe{{IngredientID: flour.ID, Amount: 7}})
	suite.Require().ErrorIs(err, repository.ErrConflict)

	var after int64
	suite.NoError(suite.repository.DB.Model(&model.IngredientInRecipe{}).Count(&after).Error)
	suite.Equal(before, after)
}

func (suite *RecipeTestSuite) TestUpdateRecipe_ReplacesFullAssociationSet() {
	author := suite.addUser("alice")
	dinner := suite.addTag("dinner")
	lunch := suite.addTag("lunch")
	flour := suite.addIngredient("flour", "g")
	milk := suite.addIngredient("milk", "ml")

	recipe := suite.addRecipe(author, "pie", dinner, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 200})

	recipe.Name = "better pie"
	recipe.CookingTime = 45

	updated, err := suite.repository.UpdateRecipe(context.Background(), recipe,
		[]model.Tag{lunch},
		[]model.IngredientInRecipe{{IngredientID: milk.ID, Amount: 300}})
	suite.Require().NoError(err)

	suite.Equal("better pie", updated.Name)
	suite.Equal(uint(45), updated.CookingTime)
	suite.Require().Len(updated.Tags, 1)
	suite.Equal("lunch", updated.Tags[0].Slug)
	suite.Require().Len(updated.Ingredients, 1)
	suite.Equal(milk.ID, updated.Ingredients[0].IngredientID)
	suite.Equal(uint(300), updated.Ingredients[0].Amount)

	// The old association rows are gone, not soft-hidden.
	var count int64
	suite.NoError(suite.repository.DB.Model(&model.IngredientInRecipe{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *RecipeTestSuite) TestDeleteRecipe_CascadesToMemberships() {
	author := suite.addUser("alice")
	fan := suite.addUser("bob")
	tag := suite.addTag("dinner")
	flour := suite.addIngredient("flour", "g")

	recipe := suite.addRecipe(author, "pie", tag, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 100})

	_, err := suite.repository.AddFavorite(context.Background(), fan.ID, recipe.ID)
	suite.Require().NoError(err)
	_, err = suite.repository.AddCartItem(context.Background(), fan.ID, recipe.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.DeleteRecipe(context.Background(), recipe.ID))

	_, err = suite.repository.GetRecipeByID(context.Background(), recipe.ID, nil)
	suite.ErrorIs(err, repository.ErrNotFound)

	for _, each := range []interface{}{&model.IngredientInRecipe{}, &model.Favorite{}, &model.CartItem{}} {
		var count int64
		suite.NoError(suite.repository.DB.Model(each).Count(&count).Error)
		suite.Zero(count)
	}
}

func (suite *RecipeTestSuite) TestDeleteRecipe_MissingRecipeNotFound() {
	suite.ErrorIs(suite.repository.DeleteRecipe(context.Background(), 12345), repository.ErrNotFound)
}

func (suite *RecipeTestSuite) TestGetRecipeByID_ViewerFlags() {
	author := suite.addUser("alice")
	viewer := suite.addUser("bob")
	tag := suite.addTag("dinner")
	flour := suite.addIngredient("flour", "g")

	recipe := suite.addRecipe(author, "pie", tag, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 100})

	_, err := suite.repository.AddFavorite(context.Background(), viewer.ID, recipe.ID)
	suite.Require().NoError(err)

	loaded, err := suite.repository.GetRecipeByID(context.Background(), recipe.ID, &viewer.ID)
	suite.Require().NoError(err)
	suite.True(loaded.IsFavorited)
	suite.False(loaded.IsInShoppingCart)

	// The flags are viewer-relative: the author sees their own state.
	loaded, err = suite.repository.GetRecipeByID(context.Background(), recipe.ID, &author.ID)
	suite.Require().NoError(err)
	suite.False(loaded.IsFavorited)
}

func (suite *RecipeTestSuite) TestListRecipes_Filters() {
	alice := suite.addUser("alice")
	bob := suite.addUser("bob")
	dinner := suite.addTag("dinner")
	lunch := suite.addTag("lunch")
	flour := suite.addIngredient("flour", "g")

	pie := suite.addRecipe(alice, "pie", dinner, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 100})
	soup := suite.addRecipe(bob, "soup", lunch, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 10})

	_, err := suite.repository.AddFavorite(context.Background(), alice.ID, soup.ID)
	suite.Require().NoError(err)
	_, err = suite.repository.AddCartItem(context.Background(), alice.ID, pie.ID)
	suite.Require().NoError(err)

	// No filter: newest first.
	recipes, count, err := suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{}, 0, 10)
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
	suite.Require().Len(recipes, 2)
	suite.Equal("soup", recipes[0].Name)
	suite.Equal("pie", recipes[1].Name)

	// By author.
	recipes, count, err = suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{AuthorID: &bob.ID}, 0, 10)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.Equal("soup", recipes[0].Name)

	// By tag slug.
	recipes, _, err = suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{TagSlugs: []string{"dinner"}}, 0, 10)
	suite.Require().NoError(err)
	suite.Require().Len(recipes, 1)
	suite.Equal("pie", recipes[0].Name)

	// Favorited, viewer-relative.
	recipes, _, err = suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{ViewerID: &alice.ID, Favorited: true}, 0, 10)
	suite.Require().NoError(err)
	suite.Require().Len(recipes, 1)
	suite.Equal("soup", recipes[0].Name)
	suite.True(recipes[0].IsFavorited)

	// In cart, viewer-relative.
	recipes, _, err = suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{ViewerID: &alice.ID, InCart: true}, 0, 10)
	suite.Require().NoError(err)
	suite.Require().Len(recipes, 1)
	suite.Equal("pie", recipes[0].Name)
	suite.True(recipes[0].IsInShoppingCart)

	// Membership filters are ignored for anonymous viewers.
	_, count, err = suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{Favorited: true}, 0, 10)
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
}

func (suite *RecipeTestSuite) TestListRecipes_Pagination() {
	alice := suite.addUser("alice")
	dinner := suite.addTag("dinner")
	flour := suite.addIngredient("flour", "g")

	for _, name := range []string{"one", "two", "three"} {
		suite.addRecipe(alice, name, dinner, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 1})
	}

	recipes, count, err := suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{}, 0, 2)
	suite.Require().NoError(err)
	suite.Equal(int64(3), count)
	suite.Len(recipes, 2)

	recipes, _, err = suite.repository.ListRecipes(context.Background(), repository.RecipeFilter{}, 2, 2)
	suite.Require().NoError(err)
	suite.Len(recipes, 1)
	suite.Equal("one", recipes[0].Name)
}

func (suite *RecipeTestSuite) TestRecipePreviewsByAuthor_Limit() {
	alice := suite.addUser("alice")
	dinner := suite.addTag("dinner")
	flour := suite.addIngredient("flour", "g")

	for _, name := range []string{"one", "two", "three"} {
		suite.addRecipe(alice, name, dinner, model.IngredientInRecipe{IngredientID: flour.ID, Amount: 1})
	}

	recipes, err := suite.repository.RecipePreviewsByAuthor(context.Background(), alice.ID, nil)
	suite.Require().NoError(err)
	suite.Len(recipes, 3)

	recipes, err = suite.repository.RecipePreviewsByAuthor(context.Background(), alice.ID, pointy.Int(2))
	suite.Require().NoError(err)
	suite.Len(recipes, 2)

	count, err := suite.repository.CountRecipesByAuthor(context.Background(), alice.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(3), count)
}
