package recipe

import (
	"strconv"
	"strings"

	"github.com/foodgram/backend/internal/domain/recipe"
)

// ShoppingListFilename is the attachment name of the downloaded list
const ShoppingListFilename = "shopping_list.txt"

// RenderShoppingList renders one "<name> (<unit>) — <amount>" line per item,
// in the given order. An empty list renders as an empty string.
func RenderShoppingList(items []recipe.ShoppingListItem) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(item.Name)
		sb.WriteString(" (")
		sb.WriteString(item.MeasurementUnit)
		sb.WriteString(") — ")
		sb.WriteString(strconv.FormatInt(item.TotalAmount, 10))
		sb.WriteByte('\n')
	}
	return sb.String()
}
