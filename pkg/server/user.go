package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.openly.dev/pointy"
	"go.uber.org/zap"

	"gribova.dev/Foodgram/configs"
	"gribova.dev/Foodgram/pkg/auth"
	"gribova.dev/Foodgram/pkg/model"
	"gribova.dev/Foodgram/pkg/repository"
)

type UserServer struct {
	repository *repository.Repository
	manager    *auth.Manager
	conf       *configs.Config
	logger     *zap.Logger
}

func NewUserServer(repository *repository.Repository, manager *auth.Manager, conf *configs.Config, logger *zap.Logger) *UserServer {
	return &UserServer{repository: repository, manager: manager, conf: conf, logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type registerResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *UserServer) Register(c *gin.Context) {
	var request registerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, s.logger, newValidationError("body", err.Error()))

		return
	}

	passwordHash, err := auth.HashPassword(request.Password)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user, err := s.repository.AddUser(c.Request.Context(), model.User{
		Email:        request.Email,
		Username:     request.Username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: passwordHash,
	})
	if err != nil {
		renderError(c, s.logger, wrapConflict(err, "a user with this username or email already exists"))

		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (s *UserServer) ListUsers(c *gin.Context) {
	params := getPageParams(c, s.conf.Server.PageSize)

	users, count, err := s.repository.ListUsers(c.Request.Context(), params.offset(), params.size)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	viewer := auth.CurrentUser(c)

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		subscribed, err := s.viewerFollows(c, viewer, user.ID)
		if err != nil {
			renderError(c, s.logger, err)

			return
		}

		responses = append(responses, UserFromModel(user, subscribed))
	}

	c.JSON(http.StatusOK, newPage(c, params, count, responses))
}

func (s *UserServer) GetUser(c *gin.Context) {
	userID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user, err := s.repository.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	subscribed, err := s.viewerFollows(c, auth.CurrentUser(c), user.ID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.JSON(http.StatusOK, UserFromModel(user, subscribed))
}

func (s *UserServer) Me(c *gin.Context) {
	user := auth.CurrentUser(c)

	c.JSON(http.StatusOK, UserFromModel(user, false))
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

func (s *UserServer) SetPassword(c *gin.Context) {
	var request setPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, s.logger, newValidationError("body", err.Error()))

		return
	}

	user := auth.CurrentUser(c)

	if !auth.CheckPassword(user.PasswordHash, request.CurrentPassword) {
		renderError(c, s.logger, newValidationError("current_password", "wrong password"))

		return
	}

	passwordHash, err := auth.HashPassword(request.NewPassword)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	if err := s.repository.SetPassword(c.Request.Context(), user.ID, passwordHash); err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.Status(http.StatusNoContent)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *UserServer) Login(c *gin.Context) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, s.logger, newValidationError("body", err.Error()))

		return
	}

	token, err := s.manager.Login(c, request.Email, request.Password)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout exists for API symmetry; bearer tokens are discarded client
// side.
func (s *UserServer) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *UserServer) Subscribe(c *gin.Context) {
	authorID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	if user.ID == authorID {
		renderError(c, s.logger, newValidationError("author", "subscribing to yourself is not possible"))

		return
	}

	author, err := s.repository.GetUserByID(c.Request.Context(), authorID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	if _, err := s.repository.AddFollow(c.Request.Context(), user.ID, author.ID); err != nil {
		renderError(c, s.logger, wrapConflict(err, "you are already subscribed to this user"))

		return
	}

	response, err := s.userWithRecipes(c, author, true, nil)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.JSON(http.StatusCreated, response)
}

func (s *UserServer) Unsubscribe(c *gin.Context) {
	authorID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	user := auth.CurrentUser(c)

	if err := s.repository.RemoveFollow(c.Request.Context(), user.ID, authorID); err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// Subscriptions lists the followed authors with their recipe counts and
// a preview of recipes, optionally truncated by recipe_limit.
func (s *UserServer) Subscriptions(c *gin.Context) {
	user := auth.CurrentUser(c)
	params := getPageParams(c, s.conf.Server.PageSize)

	var recipeLimit *int
	if limit, err := strconv.Atoi(c.Query("recipe_limit")); err == nil && limit >= 0 {
		recipeLimit = pointy.Int(limit)
	}

	authors, count, err := s.repository.ListFollowedAuthors(c.Request.Context(), user.ID, params.offset(), params.size)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	responses := make([]UserWithRecipesResponse, 0, len(authors))

	for _, author := range authors {
		response, err := s.userWithRecipes(c, author, true, recipeLimit)
		if err != nil {
			renderError(c, s.logger, err)

			return
		}

		responses = append(responses, response)
	}

	c.JSON(http.StatusOK, newPage(c, params, count, responses))
}

func (s *UserServer) userWithRecipes(c *gin.Context, author *model.User, subscribed bool, recipeLimit *int) (UserWithRecipesResponse, error) {
	count, err := s.repository.CountRecipesByAuthor(c.Request.Context(), author.ID)
	if err != nil {
		return UserWithRecipesResponse{}, err
	}

	recipes, err := s.repository.RecipePreviewsByAuthor(c.Request.Context(), author.ID, recipeLimit)
	if err != nil {
		return UserWithRecipesResponse{}, err
	}

	response := UserWithRecipesResponse{
		UserResponse: UserFromModel(author, subscribed),
		RecipesCount: count,
		Recipes:      make([]RecipeShortResponse, 0, len(recipes)),
	}

	for _, recipe := range recipes {
		response.Recipes = append(response.Recipes, RecipeShortFromModel(recipe))
	}

	return response, nil
}

func (s *UserServer) viewerFollows(c *gin.Context, viewer *model.User, authorID uint) (bool, error) {
	if viewer == nil || viewer.ID == authorID {
		return false, nil
	}

	return s.repository.IsFollowing(c.Request.Context(), viewer.ID, authorID)
}

// wrapConflict attaches a human-readable message to unique-constraint
// failures and passes every other error through untouched.
func wrapConflict(err error, message string) error {
	if err == nil {
		return nil
	}

	if errorsIsConflict(err) {
		return fmt.Errorf("%w: %s", repository.ErrConflict, message)
	}

	return err
}
