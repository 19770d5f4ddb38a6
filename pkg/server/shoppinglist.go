package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gribova.dev/Foodgram/pkg/auth"
	"gribova.dev/Foodgram/pkg/model"
)

const shoppingListFilename = "shopping_list.txt"

// DownloadShoppingCart aggregates the viewer's cart and streams it as a
// plain-text attachment, one ingredient per line.
func (s *RecipeServer) DownloadShoppingCart(c *gin.Context) {
	user := auth.CurrentUser(c)

	items, err := s.repository.BuildShoppingList(c.Request.Context(), user.ID)
	if err != nil {
		renderError(c, s.logger, err)

		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(renderShoppingList(items)))
}

func renderShoppingList(items []*model.ShoppingListItem) string {
	var builder strings.Builder

	for _, item := range items {
		fmt.Fprintf(&builder, "%s (%s) - %d\n", item.IngredientName, item.MeasurementUnit, item.TotalAmount)
	}

	return builder.String()
}
