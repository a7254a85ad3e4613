package assistant

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voicecart/voicecart/store"
)

func TestConversationContextDefaults(t *testing.T) {
	c := NewConversationContext()
	require.Equal(t, "/", c.CurrentPage())
	require.Empty(t, c.LastQuery())
	require.Nil(t, c.LastFoundProducts())
	require.Empty(t, c.History())
}

func TestConversationContextRememberCap(t *testing.T) {
	c := NewConversationContext()

	products := make([]*store.Product, 5)
	for i := range products {
		products[i] = &store.Product{ID: int32(i + 1), Name: fmt.Sprintf("Product %d", i+1)}
	}
	c.SetLastFoundProducts(products)

	remembered := c.LastFoundProducts()
	require.Len(t, remembered, maxRememberedProducts)
	require.Equal(t, int32(1), remembered[0].ID)
	require.Equal(t, int32(3), remembered[2].ID)
}

func TestConversationContextRememberReplacesWholesale(t *testing.T) {
	c := NewConversationContext()
	c.SetLastFoundProducts([]*store.Product{{ID: 1}, {ID: 2}})
	c.SetLastFoundProducts([]*store.Product{{ID: 9}})

	remembered := c.LastFoundProducts()
	require.Len(t, remembered, 1)
	require.Equal(t, int32(9), remembered[0].ID)
}

func TestConversationContextCopies(t *testing.T) {
	c := NewConversationContext()
	c.SetLastFoundProducts([]*store.Product{{ID: 1}})

	remembered := c.LastFoundProducts()
	remembered[0] = &store.Product{ID: 42}
	require.Equal(t, int32(1), c.LastFoundProducts()[0].ID)
}

func TestConversationContextHistoryAndReset(t *testing.T) {
	c := NewConversationContext()
	c.SetCurrentPage("/cart")
	c.SetLastQuery("find headphones")
	c.AppendHistory(store.MessageRoleUser, "find headphones")
	c.AppendHistory(store.MessageRoleAssistant, "I found 1 product.")

	history := c.History()
	require.Len(t, history, 2)
	require.Equal(t, store.MessageRoleUser, history[0].Role)
	require.Equal(t, "I found 1 product.", history[1].Content)

	c.Reset()
	require.Empty(t, c.LastQuery())
	require.Empty(t, c.History())
	require.Equal(t, "/cart", c.CurrentPage())
}
