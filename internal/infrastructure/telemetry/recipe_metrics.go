package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives no meter
var ErrMeterNil = errors.New("meter cannot be nil")

// List names used as the "list" attribute of list mutation counters
const (
	ListFavorites     = "favorites"
	ListShoppingCart  = "shopping_cart"
	ListSubscriptions = "subscriptions"
)

// Outcomes used as the "outcome" attribute of list mutation counters
const (
	OutcomeAdded     = "added"
	OutcomeRemoved   = "removed"
	OutcomeDuplicate = "duplicate"
)

// RecipeMetrics counts recipe writes and user list activity. A nil
// *RecipeMetrics is valid and records nothing.
type RecipeMetrics struct {
	recipesCreated    *Counter
	recipesUpdated    *Counter
	recipesDeleted    *Counter
	listMutations     *Counter
	shoppingListLines *Histogram
}

// NewRecipeMetrics creates the recipe instruments on meter
func NewRecipeMetrics(meter metric.Meter) (*RecipeMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   RecipeMetrics
		err error
	)
	if m.recipesCreated, err = NewCounter(meter, "foodgram_recipes_created_total", "Total number of recipes created", "{recipe}"); err != nil {
		return nil, err
	}
	if m.recipesUpdated, err = NewCounter(meter, "foodgram_recipes_updated_total", "Total number of recipe updates", "{recipe}"); err != nil {
		return nil, err
	}
	if m.recipesDeleted, err = NewCounter(meter, "foodgram_recipes_deleted_total", "Total number of recipes deleted", "{recipe}"); err != nil {
		return nil, err
	}
	if m.listMutations, err = NewCounter(meter, "foodgram_list_mutations_total", "Favorite, cart and subscription changes by outcome", "{mutation}"); err != nil {
		return nil, err
	}
	if m.shoppingListLines, err = NewHistogram(meter, HistogramOpts{
		Name:        "foodgram_shopping_list_lines",
		Description: "Number of aggregated lines per generated shopping list",
		Unit:        "{line}",
		Boundaries:  ShoppingListSizeBuckets,
	}); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecipeCreated counts a created recipe
func (m *RecipeMetrics) RecipeCreated(ctx context.Context) {
	if m != nil {
		m.recipesCreated.Inc(ctx)
	}
}

// RecipeUpdated counts a recipe update
func (m *RecipeMetrics) RecipeUpdated(ctx context.Context) {
	if m != nil {
		m.recipesUpdated.Inc(ctx)
	}
}

// RecipeDeleted counts a deleted recipe
func (m *RecipeMetrics) RecipeDeleted(ctx context.Context) {
	if m != nil {
		m.recipesDeleted.Inc(ctx)
	}
}

// ListMutation counts a change to one of the per-user lists
func (m *RecipeMetrics) ListMutation(ctx context.Context, list, outcome string) {
	if m != nil {
		m.listMutations.Inc(ctx, AttrList.String(list), AttrOutcome.String(outcome))
	}
}

// ShoppingListBuilt records the size of an aggregated shopping list
func (m *RecipeMetrics) ShoppingListBuilt(ctx context.Context, lines int) {
	if m != nil {
		m.shoppingListLines.Record(ctx, float64(lines))
	}
}
