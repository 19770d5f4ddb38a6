package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gribova.dev/Foodgram/configs"
	"gribova.dev/Foodgram/pkg/auth"
	"gribova.dev/Foodgram/pkg/repository"
)

// NewRouter assembles the API routes. Read endpoints accept anonymous
// viewers through the optional middleware; everything that writes or is
// viewer-private requires a token.
func NewRouter(repo *repository.Repository, manager *auth.Manager, conf *configs.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	users := NewUserServer(repo, manager, conf, logger)
	catalog := NewCatalogServer(repo, logger)
	recipes := NewRecipeServer(repo, conf, logger)

	api := router.Group("/api")

	tokens := api.Group("/auth/token")
	{
		tokens.POST("/login/", users.Login)
		tokens.POST("/logout/", manager.RequireAuth(), users.Logout)
	}

	userRoutes := api.Group("/users")
	{
		userRoutes.POST("/", users.Register)
		userRoutes.GET("/", manager.OptionalAuth(), users.ListUsers)
		userRoutes.GET("/me/", manager.RequireAuth(), users.Me)
		userRoutes.POST("/set_password/", manager.RequireAuth(), users.SetPassword)
		userRoutes.GET("/subscriptions/", manager.RequireAuth(), users.Subscriptions)
		userRoutes.GET("/:id/", manager.RequireAuth(), users.GetUser)
		userRoutes.POST("/:id/subscribe/", manager.RequireAuth(), users.Subscribe)
		userRoutes.DELETE("/:id/subscribe/", manager.RequireAuth(), users.Unsubscribe)
	}

	tagRoutes := api.Group("/tags")
	{
		tagRoutes.GET("/", catalog.ListTags)
		tagRoutes.GET("/:id/", catalog.GetTag)
	}

	ingredientRoutes := api.Group("/ingredients")
	{
		ingredientRoutes.GET("/", catalog.ListIngredients)
		ingredientRoutes.GET("/:id/", catalog.GetIngredient)
	}

	recipeRoutes := api.Group("/recipes")
	{
		recipeRoutes.GET("/", manager.OptionalAuth(), recipes.ListRecipes)
		recipeRoutes.POST("/", manager.RequireAuth(), recipes.CreateRecipe)
		recipeRoutes.GET("/download_shopping_cart/", manager.RequireAuth(), recipes.DownloadShoppingCart)
		recipeRoutes.GET("/:id/", manager.OptionalAuth(), recipes.GetRecipe)
		recipeRoutes.PATCH("/:id/", manager.RequireAuth(), recipes.UpdateRecipe)
		recipeRoutes.DELETE("/:id/", manager.RequireAuth(), recipes.DeleteRecipe)
		recipeRoutes.POST("/:id/favorite/", manager.RequireAuth(), recipes.Favorite)
		recipeRoutes.DELETE("/:id/favorite/", manager.RequireAuth(), recipes.Unfavorite)
		recipeRoutes.POST("/:id/shopping_cart/", manager.RequireAuth(), recipes.AddToCart)
		recipeRoutes.DELETE("/:id/shopping_cart/", manager.RequireAuth(), recipes.RemoveFromCart)
	}

	return router
}
