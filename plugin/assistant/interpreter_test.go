package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/voicecart/voicecart/store"
)

func int32Ptr(v int32) *int32 {
	return &v
}

func testProducts() []*store.Product {
	return []*store.Product{
		{ID: 1, Name: "Wireless Headphones", Description: "Premium noise-cancelling wireless headphones with long battery life.", Category: "Electronics", Price: 129.99, Discount: int32Ptr(15), Rating: 4.5},
		{ID: 2, Name: "Smart Watch", Description: "Fitness tracking smart watch with heart rate monitor.", Category: "Electronics", Price: 199.99, Rating: 4},
		{ID: 5, Name: "Denim Jacket", Description: "Classic denim jacket with a modern fit.", Category: "Clothing", Price: 79.99, Discount: int32Ptr(25), Rating: 4.2},
		{ID: 10, Name: "Running Shoes", Description: "Lightweight running shoes with breathable mesh.", Category: "Footwear", Price: 109.99, Rating: 4.7},
	}
}

// fakeCatalog serves a fixed product list.
type fakeCatalog struct {
	products []*store.Product
	err      error
}

func (c *fakeCatalog) All(_ context.Context) ([]*store.Product, error) {
	return c.products, c.err
}

func (c *fakeCatalog) Search(_ context.Context, term string) ([]*store.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	lower := strings.ToLower(term)
	var matches []*store.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) ||
			strings.Contains(strings.ToLower(p.Category), lower) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// fakeCart keeps lines in memory with upsert semantics.
type fakeCart struct {
	catalog *fakeCatalog
	lines   []*store.CartLine
	err     error
}

func (c *fakeCart) Lines(_ context.Context) ([]*store.CartLine, error) {
	return c.lines, c.err
}

func (c *fakeCart) Add(_ context.Context, productID int32) error {
	if c.err != nil {
		return c.err
	}
	for _, line := range c.lines {
		if line.Product.ID == productID {
			line.Quantity++
			return nil
		}
	}
	for _, p := range c.catalog.products {
		if p.ID == productID {
			c.lines = append(c.lines, &store.CartLine{Product: p, Quantity: 1})
			return nil
		}
	}
	return errors.New("no such product")
}

func (c *fakeCart) Remove(_ context.Context, productID int32) error {
	if c.err != nil {
		return c.err
	}
	for idx, line := range c.lines {
		if line.Product.ID == productID {
			c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
			return nil
		}
	}
	return errors.New("not in cart")
}

func (c *fakeCart) Total(_ context.Context) (float64, error) {
	if c.err != nil {
		return 0, c.err
	}
	var total float64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total, nil
}

func newTestInterpreter(userName string) (*Interpreter, *fakeCart) {
	catalog := &fakeCatalog{products: testProducts()}
	cart := &fakeCart{catalog: catalog}
	return NewInterpreter(catalog, cart, userName), cart
}

func TestResolveSearch(t *testing.T) {
	i, _ := newTestInterpreter("")
	conv := NewConversationContext()

	reply, err := i.Resolve(context.Background(), "find headphones", conv)
	require.NoError(t, err)
	require.Equal(t, `I found 1 products matching "headphones". Here are some results:`, reply.Message)
	require.Len(t, reply.Products, 1)
	require.Equal(t, "search:headphones", reply.Action.Token())
	require.Len(t, reply.Remember, 1)

	reply, err = i.Resolve(context.Background(), "find unicorn saddles", conv)
	require.NoError(t, err)
	require.Equal(t, `I couldn't find any products matching "unicorn saddles". Would you like to try a different search term?`, reply.Message)
	require.True(t, reply.Action.IsZero())

	reply, err = i.Resolve(context.Background(), "search", conv)
	require.NoError(t, err)
	require.Equal(t, "What would you like me to search for?", reply.Message)

	reply, err = i.Resolve(context.Background(), "search electronics", conv)
	require.NoError(t, err)
	require.Equal(t, `I found 2 products matching "electronics". Here are some results:`, reply.Message)
}

func TestResolveAddToCart(t *testing.T) {
	i, cart := newTestInterpreter("")
	conv := NewConversationContext()

	reply, err := i.Resolve(context.Background(), "add smart watch", conv)
	require.NoError(t, err)
	require.Equal(t, "I've added Smart Watch to your cart. Your cart total is now $199.99.", reply.Message)
	require.Equal(t, "addToCart:2", reply.Action.Token())
	require.Len(t, cart.lines, 1)

	// Adding again bumps the quantity instead of duplicating the line.
	reply, err = i.Resolve(context.Background(), "add smart watch", conv)
	require.NoError(t, err)
	require.Equal(t, "I've added Smart Watch to your cart. Your cart total is now $399.98.", reply.Message)
	require.Len(t, cart.lines, 1)
	require.Equal(t, int32(2), cart.lines[0].Quantity)

	reply, err = i.Resolve(context.Background(), "buy a jetpack", conv)
	require.NoError(t, err)
	require.Equal(t, `I couldn't find a product called "a jetpack". Would you like me to search for it?`, reply.Message)
}

func TestResolveAddToCartAnaphora(t *testing.T) {
	i, cart := newTestInterpreter("")
	conv := NewConversationContext()

	// Nothing remembered yet, so a bare add has to ask.
	reply, err := i.Resolve(context.Background(), "add to cart", conv)
	require.NoError(t, err)
	require.Equal(t, "Which product would you like to add to your cart?", reply.Message)
	require.Empty(t, cart.lines)

	conv.SetLastFoundProducts([]*store.Product{testProducts()[0]})

	reply, err = i.Resolve(context.Background(), "add to cart", conv)
	require.NoError(t, err)
	// 129.99 at 15% off.
	require.Equal(t, "I've added Wireless Headphones to your cart. Your cart total is now $110.49.", reply.Message)
	require.Equal(t, "addToCart:1", reply.Action.Token())
}

func TestResolveRemoveFromCart(t *testing.T) {
	i, cart := newTestInterpreter("")
	conv := NewConversationContext()

	reply, err := i.Resolve(context.Background(), "remove from cart", conv)
	require.NoError(t, err)
	require.Equal(t, "Your cart is empty. There's nothing to remove.", reply.Message)

	_, err = i.Resolve(context.Background(), "add smart watch", conv)
	require.NoError(t, err)
	_, err = i.Resolve(context.Background(), "add running shoes", conv)
	require.NoError(t, err)

	reply, err = i.Resolve(context.Background(), "remove from cart", conv)
	require.NoError(t, err)
	require.Equal(t, "Which product would you like to remove from your cart? You have 2 items in your cart.", reply.Message)

	reply, err = i.Resolve(context.Background(), "remove smart watch from my cart", conv)
	require.NoError(t, err)
	require.Equal(t, "I've removed Smart Watch from your cart. Your cart total is now $109.99.", reply.Message)
	require.Len(t, cart.lines, 1)

	reply, err = i.Resolve(context.Background(), "remove from cart", conv)
	require.NoError(t, err)
	require.Equal(t, "I've removed Running Shoes from your cart. Your cart is now empty.", reply.Message)
	require.Empty(t, cart.lines)

	_, err = i.Resolve(context.Background(), "add smart watch", conv)
	require.NoError(t, err)
	reply, err = i.Resolve(context.Background(), "remove denim jacket from my cart", conv)
	require.NoError(t, err)
	require.Equal(t, `I couldn't find "denim jacket" in your cart. Please check your cart to see what items you have.`, reply.Message)
}

func TestResolveNavigation(t *testing.T) {
	i, _ := newTestInterpreter("")
	conv := NewConversationContext()

	tests := []struct {
		command string
		message string
		action  string
	}{
		{"go to my cart", "Taking you to your cart.", "navigate:/cart"},
		{"take me to homepage", "Taking you to the home page.", "navigate:/"},
		{"open my orders", "Taking you to your orders.", "navigate:/orders"},
		{"navigate to categories", "Taking you to the categories page.", "navigate:/categories"},
		{"go to saved items", "Taking you to your wishlist.", "navigate:/wishlist"},
		{"go to the special offers", "Navigating to the Deals section. Current promotions, discounts, and special offers available in our store.", "navigate:/deals"},
		{"take me to footwear", "Showing you our footwear collection.", "category:footwear"},
		{"go to the running shoes", "Taking you to the Running Shoes product page.", "navigate:/product/10"},
	}
	for _, tt := range tests {
		reply, err := i.Resolve(context.Background(), tt.command, conv)
		require.NoError(t, err, tt.command)
		require.Equal(t, tt.message, reply.Message, tt.command)
		require.Equal(t, tt.action, reply.Action.Token(), tt.command)
	}

	reply, err := i.Resolve(context.Background(), "go to the moon", conv)
	require.NoError(t, err)
	require.Equal(t, `I couldn't find a section called "the moon". You can navigate to Home, Categories, Orders, Wishlist, Deals, or Account.`, reply.Message)
	require.True(t, reply.Action.IsZero())
}

func TestResolveInformation(t *testing.T) {
	i, _ := newTestInterpreter("")
	conv := NewConversationContext()

	reply, err := i.Resolve(context.Background(), "tell me about the denim jacket", conv)
	require.NoError(t, err)
	require.Equal(t, "Denim Jacket: Classic denim jacket with a modern fit. It costs $59.99 (25% off the original price of $79.99) and has a rating of 4.2 out of 5 stars. Would you like to see more details or add it to your cart?", reply.Message)
	require.Equal(t, "showProduct:5", reply.Action.Token())
	require.Len(t, reply.Products, 1)

	reply, err = i.Resolve(context.Background(), "do you have a wishlist", conv)
	require.NoError(t, err)
	require.Equal(t, "Products you've saved for later. You can add items to your wishlist by clicking the heart icon on any product.", reply.Message)
	require.Equal(t, "suggestNavigation:/wishlist", reply.Action.Token())

	reply, err = i.Resolve(context.Background(), "what is your shipping policy", conv)
	require.NoError(t, err)
	require.Contains(t, reply.Message, "free standard shipping on all orders over $50")

	reply, err = i.Resolve(context.Background(), "what is the meaning of life", conv)
	require.NoError(t, err)
	require.Equal(t, "I'm not sure about that specific information. You can ask me about our website sections, shipping, returns, payment methods, or how to use specific features.", reply.Message)
}

func TestResolveCartStatus(t *testing.T) {
	i, _ := newTestInterpreter("")
	conv := NewConversationContext()

	reply, err := i.Resolve(context.Background(), "what's in my cart", conv)
	require.NoError(t, err)
	require.Equal(t, "Your cart is currently empty. Would you like me to help you find some products?", reply.Message)

	_, err = i.Resolve(context.Background(), "add smart watch", conv)
	require.NoError(t, err)
	_, err = i.Resolve(context.Background(), "add smart watch", conv)
	require.NoError(t, err)

	reply, err = i.Resolve(context.Background(), "cart", conv)
	require.NoError(t, err)
	require.Equal(t, "You have 2 items in your cart with a total of $399.98. Your cart contains: 2 Smart Watch at $199.99 each. Would you like to checkout or continue shopping?", reply.Message)
	require.Equal(t, "suggestCheckout", reply.Action.Token())
}

func TestResolveSmallTalk(t *testing.T) {
	conv := NewConversationContext()

	i, _ := newTestInterpreter("")
	reply, err := i.Resolve(context.Background(), "hello", conv)
	require.NoError(t, err)
	require.Equal(t, "Hello! How can I help with your shopping today?", reply.Message)

	i, _ = newTestInterpreter("Jordan")
	reply, err = i.Resolve(context.Background(), "good morning", conv)
	require.NoError(t, err)
	require.Equal(t, "Hello Jordan! How can I help with your shopping today?", reply.Message)

	reply, err = i.Resolve(context.Background(), "thanks", conv)
	require.NoError(t, err)
	require.Equal(t, "You're welcome! Is there anything else I can help you with?", reply.Message)

	reply, err = i.Resolve(context.Background(), "help", conv)
	require.NoError(t, err)
	require.Contains(t, reply.Message, "Try saying things like 'find headphones'")
}

func TestResolveMentions(t *testing.T) {
	i, _ := newTestInterpreter("")
	conv := NewConversationContext()

	reply, err := i.Resolve(context.Background(), "smart watch", conv)
	require.NoError(t, err)
	require.Equal(t, "I found Smart Watch. Would you like to add it to your cart or see more details?", reply.Message)
	require.Equal(t, "showProduct:2", reply.Action.Token())
	require.Len(t, reply.Remember, 1)

	reply, err = i.Resolve(context.Background(), "electronics", conv)
	require.NoError(t, err)
	require.Equal(t, "I can show you our electronics collection. Here are some products:", reply.Message)
	require.Equal(t, "category:electronics", reply.Action.Token())
	require.Len(t, reply.Products, 2)

	reply, err = i.Resolve(context.Background(), "blargh", conv)
	require.NoError(t, err)
	require.Equal(t, "I'm not sure how to help with that. You can ask me to find products, navigate to different sections, add items to your cart, or get information about the website.", reply.Message)
}

func TestResolvePageQuery(t *testing.T) {
	i, _ := newTestInterpreter("")
	conv := NewConversationContext()

	reply, err := i.Resolve(context.Background(), "where am i", conv)
	require.NoError(t, err)
	require.Equal(t, "You're on the Home page. The main page of our store featuring featured products and current promotions.", reply.Message)

	conv.SetCurrentPage("/product/1")
	reply, err = i.Resolve(context.Background(), "what page is this", conv)
	require.NoError(t, err)
	require.Equal(t, "You're viewing the Wireless Headphones product page. This electronics costs $110.49 (15% off). Premium noise-cancelling wireless headphones with long battery life.", reply.Message)

	conv.SetCurrentPage("/deals")
	reply, err = i.Resolve(context.Background(), "explain this page", conv)
	require.NoError(t, err)
	require.Equal(t, "You're on the Deals page. Current promotions, discounts, and special offers available in our store.", reply.Message)

	conv.SetCurrentPage("/blog")
	reply, err = i.Resolve(context.Background(), "where am i", conv)
	require.NoError(t, err)
	require.Equal(t, "You're on the blog page.", reply.Message)
}

func TestResolveCollaboratorFailure(t *testing.T) {
	catalog := &fakeCatalog{products: testProducts()}
	cart := &fakeCart{catalog: catalog, err: errors.New("connection reset")}
	i := NewInterpreter(catalog, cart, "")
	conv := NewConversationContext()

	_, err := i.Resolve(context.Background(), "what's in my cart", conv)
	require.Error(t, err)
	require.True(t, IsCode(err, ErrCodeCollaboratorFailed))
}
