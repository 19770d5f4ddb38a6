package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gribova.dev/Foodgram/pkg/repository"
)

// CatalogServer serves the tag and ingredient reference data. Both
// catalogs are read-only over the API; writes happen through the
// import command.
type CatalogServer struct {
	repository *repository.Repository
	logger     *zap.Logger
}

func NewCatalogServer(repository *repository.Repository, logger *zap.Logger) *CatalogServer {
	return &CatalogServer{repository: repository, logger: logger}
}

func (s *CatalogServer) ListTags(c *gin.Context) {
	tags, err := s.repository.ListTags(c.Request.Context())
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, TagFromModel(tag))
	}

	c.JSON(http.StatusOK, responses)
}

func (s *CatalogServer) GetTag(c *gin.Context) {
	tagID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	tag, err := s.repository.GetTagByID(c.Request.Context(), tagID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.JSON(http.StatusOK, TagFromModel(tag))
}

func (s *CatalogServer) ListIngredients(c *gin.Context) {
	name := normalizeIngredientQuery(c.Query("name"))

	ingredients, err := s.repository.SearchIngredients(c.Request.Context(), name)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	responses := make([]IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, IngredientFromModel(ingredient))
	}

	c.JSON(http.StatusOK, responses)
}

func (s *CatalogServer) GetIngredient(c *gin.Context) {
	ingredientID, err := pathID(c)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	ingredient, err := s.repository.GetIngredientByID(c.Request.Context(), ingredientID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.JSON(http.StatusOK, IngredientFromModel(ingredient))
}

// pathID parses the :id path segment; a malformed id behaves like a
// missing record.
func pathID(c *gin.Context) (uint, error) {
	value, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, repository.ErrNotFound
	}

	return uint(value), nil
}
