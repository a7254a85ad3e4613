package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voicecart/voicecart/store"
)

func TestSeededCatalog(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	products, err := ts.AllProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	// Every seeded category from the original storefront must be present.
	categories := map[string]bool{}
	for _, product := range products {
		categories[product.Category] = true
		require.Positive(t, product.Price)
		require.GreaterOrEqual(t, product.EffectivePrice(), 0.0)
	}
	for _, want := range []string{"Electronics", "Clothing", "Kitchen", "Accessories", "Footwear", "Home"} {
		require.True(t, categories[want], "missing category %s", want)
	}
}

func TestProductSearch(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	term := "headphones"
	matches, err := ts.ListProducts(ctx, &store.FindProduct{Term: &term})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "Wireless Headphones", matches[0].Name)

	// Case-insensitive category match.
	category := "footwear"
	matches, err = ts.ListProducts(ctx, &store.FindProduct{Category: &category})
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestDiscountedFilter(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	discounted := true
	matches, err := ts.ListProducts(ctx, &store.FindProduct{Discounted: &discounted})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, product := range matches {
		require.NotNil(t, product.Discount)
	}
}

func TestCartUpsertIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	session := "test-session"
	first, err := ts.UpsertCartItem(ctx, &store.UpsertCartItem{SessionUID: session, ProductID: 1})
	require.NoError(t, err)
	require.EqualValues(t, 1, first.Quantity)

	second, err := ts.UpsertCartItem(ctx, &store.UpsertCartItem{SessionUID: session, ProductID: 1})
	require.NoError(t, err)
	require.EqualValues(t, 2, second.Quantity)

	lines, err := ts.CartLines(ctx, session)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.EqualValues(t, 2, lines[0].Quantity)
}

func TestCartTotalAppliesDiscount(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	discount := int32(25)
	product, err := ts.CreateProduct(ctx, &store.Product{
		Name:     "Test Gadget",
		Category: "Electronics",
		Price:    100,
		Discount: &discount,
	})
	require.NoError(t, err)

	session := "discount-session"
	_, err = ts.UpsertCartItem(ctx, &store.UpsertCartItem{SessionUID: session, ProductID: product.ID})
	require.NoError(t, err)

	total, err := ts.CartTotal(ctx, session)
	require.NoError(t, err)
	require.InDelta(t, 75.0, total, 0.001)
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	session := "remove-session"
	_, err := ts.UpsertCartItem(ctx, &store.UpsertCartItem{SessionUID: session, ProductID: 1})
	require.NoError(t, err)
	_, err = ts.UpsertCartItem(ctx, &store.UpsertCartItem{SessionUID: session, ProductID: 2})
	require.NoError(t, err)

	productID := int32(1)
	require.NoError(t, ts.DeleteCartItem(ctx, &store.DeleteCartItem{SessionUID: session, ProductID: &productID}))

	lines, err := ts.CartLines(ctx, session)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	require.NoError(t, ts.DeleteCartItem(ctx, &store.DeleteCartItem{SessionUID: session}))
	lines, err = ts.CartLines(ctx, session)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestAssistantMessageRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	session := "message-session"
	created, err := ts.CreateAssistantMessage(ctx, &store.AssistantMessage{
		UID:        "msg-1",
		SessionUID: session,
		Role:       store.MessageRoleAssistant,
		Content:    "I found 2 products matching \"headphones\". Here are some results:",
		ProductIDs: []int32{1, 3},
		Action:     "search:headphones",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.CreatedTs)

	messages, err := ts.ListAssistantMessages(ctx, &store.FindAssistantMessage{SessionUID: &session})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, store.MessageRoleAssistant, messages[0].Role)
	require.Equal(t, []int32{1, 3}, messages[0].ProductIDs)
	require.Equal(t, "search:headphones", messages[0].Action)
}
