package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gribova.dev/Foodgram/configs"
	"gribova.dev/Foodgram/pkg/auth"
	"gribova.dev/Foodgram/pkg/model"
	"gribova.dev/Foodgram/pkg/repository"
)

type RecipeServer struct {
	repository *repository.Repository
	conf       *configs.Config
	logger     *zap.Logger
}

func NewRecipeServer(repository *repository.Repository, conf *configs.Config, logger *zap.Logger) *RecipeServer {
	return &RecipeServer{repository: repository, conf: conf, logger: logger}
}

type ingredientEntryRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// recipeRequest is the write shape for both create and update; the read
// shape is RecipeResponse.
type recipeRequest struct {
	Ingredients []ingredientEntryRequest `json:"ingredients"`
	Tags        []uint                   `json:"tags"`
	Image       string                   `json:"image"`
	Name        string                   `json:"name"`
	Text        string                   `json:"text"`
	CookingTime int                      `json:"cooking_time"`
}

// validate accumulates every rule violation instead of stopping at the
// first one, so the caller sees all broken fields at once.
func (r *recipeRequest) validate() error {
	var errs error

	if r.Name == "" {
		errs = multierr.Append(errs, newValidationError("name", "this field is required"))
	}

	if r.Text == "" {
		errs = multierr.Append(errs, newValidationError("text", "this field is required"))
	}

	if r.CookingTime < 1 {
		errs = multierr.Append(errs, newValidationError("cooking_time", "cooking time must be 1 or greater"))
	}

	if len(r.Tags) == 0 {
		errs = multierr.Append(errs, newValidationError("tags", "a recipe cannot be created without tags"))
	}

	seenTags := make(map[uint]bool, len(r.Tags))
	for _, tagID := range r.Tags {
		if seenTags[tagID] {
			errs = multierr.Append(errs, newValidationError("tags", "tags cannot repeat"))

			break
		}

		seenTags[tagID] = true
	}

	if len(r.Ingredients) == 0 {
		errs = multierr.Append(errs, newValidationError("ingredients", "a recipe cannot be created without ingredients"))
	}

	seenIngredients := make(map[uint]bool, len(r.Ingredients))
	for _, entry := range r.Ingredients {
		if seenIngredients[entry.ID] {
			errs = multierr.Append(errs, newValidationError("ingredients", "ingredients cannot repeat"))

			break
		}

		seenIngredients[entry.ID] = true
	}

	for _, entry := range r.Ingredients {
		if entry.Amount < 1 {
			errs = multierr.Append(errs, newValidationError("amount", "ingredient amount must be 1 or greater"))

			break
		}
	}

	return errs
}

// resolveRefs checks that every referenced tag and ingredient exists in
// the catalogs and returns the tag rows for the association write.
func (s *RecipeServer) resolveRefs(c *gin.Context, request *recipeRequest) ([]model.Tag, []model.IngredientInRecipe, error) {
	tags, err := s.repository.GetTagsByIDs(c.Request.Context(), request.Tags)
	if err != nil {
		return nil, nil, err
	}

	if len(tags) != len(request.Tags) {
		return nil, nil, newValidationError("tags", "unknown tag id")
	}

	ingredientIDs := make([]uint, 0, len(request.Ingredients))
	for _, entry := range request.Ingredients {
		ingredientIDs = append(ingredientIDs, entry.ID)
	}

	count, err := s.repository.CountIngredientsByIDs(c.Request.Context(), ingredientIDs)
	if err != nil {
		return nil, nil, err
	}

	if count != int64(len(ingredientIDs)) {
		return nil, nil, newValidationError("ingredients", "unknown ingredient id")
	}

	entries := make([]model.IngredientInRecipe, 0, len(request.Ingredients))
	for _, entry := range request.Ingredients {
		entries = append(entries, model.IngredientInRecipe{
			IngredientID: entry.ID,
			Amount:       uint(entry.Amount),
		})
	}

	return tags, entries, nil
}

func (s *RecipeServer) CreateRecipe(c *gin.Context) {
	var request recipeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, s.logger, newValidationError("body", err.Error()))

		return
	}

	if err := request.validate(); err != nil {
		renderError(c, s.logger, err)

		return
	}

	tags, entries, err := s.resolveRefs(c, &request)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	if request.Image == "" {
		renderError(c, s.logger, newValidationError("image", "this field is required"))

		return
	}

	imagePath, err := saveBase64Image(s.conf.Media.Root, request.Image)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	recipe := model.Recipe{
		Name:        request.Name,
		AuthorID:    user.ID,
		Text:        request.Text,
		Image:       imagePath,
		CookingTime: uint(request.CookingTime),
	}

	created, err := s.repository.CreateRecipe(c.Request.Context(), recipe, tags, entries)
	if err != nil {
		renderError(c, s.logger, wrapConflict(err, "you already have a recipe with this name"))

		return
	}

	s.renderRecipe(c, http.StatusCreated, created.ID, &user.ID)
}

func (s *RecipeServer) UpdateRecipe(c *gin.Context) {
	recipeID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	existing, err := s.repository.GetRecipeByID(c.Request.Context(), recipeID, &user.ID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	if existing.AuthorID != user.ID {
		renderError(c, s.logger, ErrForbidden)

		return
	}

	var request recipeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, s.logger, newValidationError("body", err.Error()))

		return
	}

	if err := request.validate(); err != nil {
		renderError(c, s.logger, err)

		return
	}

	tags, entries, err := s.resolveRefs(c, &request)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	imagePath := existing.Image
	if request.Image != "" {
		imagePath, err = saveBase64Image(s.conf.Media.Root, request.Image)
		if err != nil {
			renderError(c, s.logger, err)

			return
		}
	}

	existing.Name = request.Name
	existing.Text = request.Text
	existing.Image = imagePath
	existing.CookingTime = uint(request.CookingTime)

	if _, err := s.repository.UpdateRecipe(c.Request.Context(), existing, tags, entries); err != nil {
		renderError(c, s.logger, wrapConflict(err, "you already have a recipe with this name"))

		return
	}

	s.renderRecipe(c, http.StatusOK, recipeID, &user.ID)
}

func (s *RecipeServer) DeleteRecipe(c *gin.Context) {
	recipeID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	existing, err := s.repository.GetRecipeByID(c.Request.Context(), recipeID, nil)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	if existing.AuthorID != user.ID {
		renderError(c, s.logger, ErrForbidden)

		return
	}

	if err := s.repository.DeleteRecipe(c.Request.Context(), recipeID); err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *RecipeServer) GetRecipe(c *gin.Context) {
	recipeID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	var viewerID *uint
	if user := auth.CurrentUser(c); user != nil {
		viewerID = &user.ID
	}

	s.renderRecipe(c, http.StatusOK, recipeID, viewerID)
}

func (s *RecipeServer) ListRecipes(c *gin.Context) {
	params := getPageParams(c, s.conf.Server.PageSize)
	filter := repository.RecipeFilter{TagSlugs: c.QueryArray("tags")}

	if authorID, err := strconv.ParseUint(c.Query("author"), 10, 32); err == nil {
		id := uint(authorID)
		filter.AuthorID = &id
	}

	if user := auth.CurrentUser(c); user != nil {
		filter.ViewerID = &user.ID
		filter.Favorited = boolQuery(c, "is_favorited")
		filter.InCart = boolQuery(c, "is_in_shopping_cart")
	}

	recipes, count, err := s.repository.ListRecipes(c.Request.Context(), filter, params.offset(), params.size)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	viewer := auth.CurrentUser(c)
	subscribed := make(map[uint]bool)

	responses := make([]RecipeResponse, 0, len(recipes))

	for _, recipe := range recipes {
		if viewer != nil && viewer.ID != recipe.AuthorID {
			if _, seen := subscribed[recipe.AuthorID]; !seen {
				following, err := s.repository.IsFollowing(c.Request.Context(), viewer.ID, recipe.AuthorID)
				if err != nil {
					renderError(c, s.logger, err)

					return
				}

				subscribed[recipe.AuthorID] = following
			}
		}

		responses = append(responses, RecipeFromModel(recipe, subscribed[recipe.AuthorID]))
	}

	c.JSON(http.StatusOK, newPage(c, params, count, responses))
}

func (s *RecipeServer) Favorite(c *gin.Context) {
	s.addMembership(c, "this recipe is already in favorites", func(ctx context.Context, userID uint, recipeID uint) error {
		_, err := s.repository.AddFavorite(ctx, userID, recipeID)

		return err
	})
}

func (s *RecipeServer) Unfavorite(c *gin.Context) {
	recipeID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	if err := s.repository.RemoveFavorite(c.Request.Context(), user.ID, recipeID); err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *RecipeServer) AddToCart(c *gin.Context) {
	s.addMembership(c, "this recipe is already in the shopping cart", func(ctx context.Context, userID uint, recipeID uint) error {
		_, err := s.repository.AddCartItem(ctx, userID, recipeID)

		return err
	})
}

func (s *RecipeServer) RemoveFromCart(c *gin.Context) {
	recipeID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	if err := s.repository.RemoveCartItem(c.Request.Context(), user.ID, recipeID); err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// addMembership is the shared POST half of the favorite and cart
// toggles: 404 for a missing recipe, 409 on a duplicate pair, 201 with
// the short recipe shape on success.
func (s *RecipeServer) addMembership(c *gin.Context, conflictMessage string, add func(ctx context.Context, userID uint, recipeID uint) error) {
	recipeID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	recipe, err := s.repository.GetRecipeByID(c.Request.Context(), recipeID, nil)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	if err := add(c.Request.Context(), user.ID, recipeID); err != nil {
		renderError(c, s.logger, wrapConflict(err, conflictMessage))

		return
	}

	c.JSON(http.StatusCreated, RecipeShortFromModel(recipe))
}

func (s *RecipeServer) renderRecipe(c *gin.Context, status int, recipeID uint, viewerID *uint) {
	recipe, err := s.repository.GetRecipeByID(c.Request.Context(), recipeID, viewerID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	authorSubscribed := false

	if viewerID != nil && *viewerID != recipe.AuthorID {
		authorSubscribed, err = s.repository.IsFollowing(c.Request.Context(), *viewerID, recipe.AuthorID)
		if err != nil {
			renderError(c, s.logger, err)

			return
		}
	}

	c.JSON(status, RecipeFromModel(recipe, authorSubscribed))
}

func boolQuery(c *gin.Context, name string) bool {
	value := c.Query(name)

	return value == "1" || value == "true" || value == "True"
}
