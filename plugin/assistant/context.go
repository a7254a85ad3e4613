package assistant

import (
	"sync"
	"time"

	"github.com/voicecart/voicecart/store"
)

// maxRememberedProducts caps the follow-up working set. Anaphoric commands
// like "add it to my cart" resolve against this set.
const maxRememberedProducts = 3

// HistoryEntry is one utterance in the conversation transcript.
type HistoryEntry struct {
	Role      store.MessageRole
	Content   string
	Timestamp time.Time
}

// ConversationContext maintains state across conversation turns so that
// follow-ups like "add it to my cart" can resolve against earlier results.
type ConversationContext struct {
	mu sync.RWMutex

	lastQuery         string
	lastFoundProducts []*store.Product
	currentPage       string
	history           []HistoryEntry

	updatedAt time.Time
}

// NewConversationContext creates a context positioned on the home page.
func NewConversationContext() *ConversationContext {
	return &ConversationContext{
		currentPage: "/",
		updatedAt:   time.Now(),
	}
}

// LastQuery returns the most recent normalized user command.
func (c *ConversationContext) LastQuery() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastQuery
}

// SetLastQuery records the most recent normalized user command.
func (c *ConversationContext) SetLastQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastQuery = query
	c.updatedAt = time.Now()
}

// LastFoundProducts returns a copy of the remembered working set.
func (c *ConversationContext) LastFoundProducts() []*store.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.lastFoundProducts) == 0 {
		return nil
	}
	result := make([]*store.Product, len(c.lastFoundProducts))
	copy(result, c.lastFoundProducts)
	return result
}

// SetLastFoundProducts replaces the remembered working set wholesale,
// keeping at most maxRememberedProducts entries.
func (c *ConversationContext) SetLastFoundProducts(products []*store.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(products) > maxRememberedProducts {
		products = products[:maxRememberedProducts]
	}
	c.lastFoundProducts = make([]*store.Product, len(products))
	copy(c.lastFoundProducts, products)
	c.updatedAt = time.Now()
}

// CurrentPage returns the page the user is currently viewing.
func (c *ConversationContext) CurrentPage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentPage
}

// SetCurrentPage records the page the user is currently viewing.
func (c *ConversationContext) SetCurrentPage(page string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentPage = page
	c.updatedAt = time.Now()
}

// AppendHistory adds one utterance to the transcript.
func (c *ConversationContext) AppendHistory(role store.MessageRole, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, HistoryEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	c.updatedAt = time.Now()
}

// History returns a copy of the transcript in arrival order.
func (c *ConversationContext) History() []HistoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]HistoryEntry, len(c.history))
	copy(result, c.history)
	return result
}

// UpdatedAt reports the time of the last mutation.
func (c *ConversationContext) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// Reset clears everything except the current page.
func (c *ConversationContext) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastQuery = ""
	c.lastFoundProducts = nil
	c.history = nil
	c.updatedAt = time.Now()
}
