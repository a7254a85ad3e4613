package assistant

import (
	"context"
	"strings"
)

// IntentType identifies what the user is asking for.
type IntentType string

const (
	// IntentPageQuery asks about the page currently being viewed.
	IntentPageQuery IntentType = "page_query"
	// IntentNavigation moves the user somewhere on the site.
	IntentNavigation IntentType = "navigation"
	// IntentSearch looks up products in the catalog.
	IntentSearch IntentType = "search"
	// IntentAddToCart puts a product in the cart.
	IntentAddToCart IntentType = "add_to_cart"
	// IntentRemoveFromCart takes a product out of the cart.
	IntentRemoveFromCart IntentType = "remove_from_cart"
	// IntentInformation asks about a product, a section, or a store policy.
	IntentInformation IntentType = "information"
	// IntentCartStatus summarizes the cart contents.
	IntentCartStatus IntentType = "cart_status"
	// IntentGreeting is a salutation.
	IntentGreeting IntentType = "greeting"
	// IntentThanks is an acknowledgement.
	IntentThanks IntentType = "thanks"
	// IntentHelp asks what the assistant can do.
	IntentHelp IntentType = "help"
	// IntentProductMention names a catalog product without a verb.
	IntentProductMention IntentType = "product_mention"
	// IntentCategoryMention names a product category without a verb.
	IntentCategoryMention IntentType = "category_mention"
	// IntentUnrecognized is the fallback when no rule matches.
	IntentUnrecognized IntentType = "unrecognized"
)

// Vocabulary reports whether text mentions catalog entities. The
// interpreter implements this over the product catalog so the classifier
// stays free of storage concerns.
type Vocabulary interface {
	// MentionsProduct reports whether the command names a product by
	// name, category, or as a fragment of a product description.
	MentionsProduct(ctx context.Context, command string) bool
	// MentionsCategory reports whether the command names a category.
	MentionsCategory(ctx context.Context, command string) bool
	// IsCatalogTerm reports whether a search for the term would match
	// at least one product.
	IsCatalogTerm(ctx context.Context, term string) bool
}

// pageQueryPhrases are matched exactly against the whole command.
var pageQueryPhrases = []string{
	"where am i",
	"what page is this",
	"what is this page",
	"what's on this page",
	"explain this page",
	"tell me about this page",
}

var navigationTriggers = []string{"go to", "open", "show me", "navigate to", "take me to"}

var searchTriggers = []string{"find", "search for", "look for", "search", "show me products"}

var addTriggers = []string{"add to cart", "buy", "add", "purchase", "get"}

var removeTriggers = []string{"remove from cart", "delete from cart", "take out of cart"}

var informationTriggers = []string{
	"what is", "tell me about", "how do i", "where is",
	"do you have", "is there", "information", "details",
}

var cartStatusTriggers = []string{"what's in my cart", "show my cart", "cart contents", "my cart"}

// greetingWords match only as standalone words so that commands like
// "find a white shirt" are not misread as salutations.
var greetingWords = []string{"hello", "hi", "hey"}

var greetingPhrases = []string{"good morning", "good afternoon", "good evening"}

var thanksTriggers = []string{"thank you", "thanks", "appreciate it"}

var helpTriggers = []string{"help", "what can you do", "how do you work"}

// Classifier routes a normalized command to an intent by scanning an
// ordered rule list; the first matching rule wins.
type Classifier struct {
	vocab Vocabulary
	rules []classifierRule
}

type classifierRule struct {
	intent IntentType
	match  func(ctx context.Context, command string) bool
}

// NewClassifier creates a classifier backed by the given vocabulary.
func NewClassifier(vocab Vocabulary) *Classifier {
	c := &Classifier{vocab: vocab}
	c.rules = []classifierRule{
		{IntentPageQuery, c.isPageQuery},
		{IntentNavigation, c.isNavigation},
		{IntentSearch, c.isSearch},
		{IntentAddToCart, c.isAddToCart},
		{IntentRemoveFromCart, c.isRemoveFromCart},
		{IntentInformation, c.isInformation},
		{IntentCartStatus, c.isCartStatus},
		{IntentGreeting, c.isGreeting},
		{IntentThanks, c.isThanks},
		{IntentHelp, c.isHelp},
		{IntentProductMention, c.isProductMention},
		{IntentCategoryMention, c.isCategoryMention},
	}
	return c
}

// Classify determines the intent of a normalized command. The context
// bounds the vocabulary lookups behind the catalog-consulting rules.
func (c *Classifier) Classify(ctx context.Context, command string) IntentType {
	for _, rule := range c.rules {
		if rule.match(ctx, command) {
			return rule.intent
		}
	}
	return IntentUnrecognized
}

func (c *Classifier) isPageQuery(_ context.Context, command string) bool {
	for _, phrase := range pageQueryPhrases {
		if command == phrase {
			return true
		}
	}
	return false
}

func (c *Classifier) isNavigation(_ context.Context, command string) bool {
	return containsAnyOf(command, navigationTriggers)
}

func (c *Classifier) isSearch(ctx context.Context, command string) bool {
	if containsAnyOf(command, searchTriggers) {
		return true
	}
	// "do you have X" is a search only when X actually names something in
	// the catalog; otherwise it falls through to the information rule, so
	// "do you have a wishlist" gets a section answer instead of a failed
	// product search.
	if strings.Contains(command, "do you have") {
		remainder := strings.TrimSpace(afterPhrase(command, "do you have"))
		return remainder != "" && c.vocab != nil && c.vocab.IsCatalogTerm(ctx, remainder)
	}
	return false
}

func (c *Classifier) isAddToCart(_ context.Context, command string) bool {
	return containsAnyOf(command, addTriggers)
}

func (c *Classifier) isRemoveFromCart(_ context.Context, command string) bool {
	if containsAnyOf(command, removeTriggers) {
		return true
	}
	return strings.Contains(command, "remove") && strings.Contains(command, "cart")
}

func (c *Classifier) isInformation(_ context.Context, command string) bool {
	return containsAnyOf(command, informationTriggers)
}

func (c *Classifier) isCartStatus(_ context.Context, command string) bool {
	return command == "cart" || containsAnyOf(command, cartStatusTriggers)
}

func (c *Classifier) isGreeting(_ context.Context, command string) bool {
	for _, word := range greetingWords {
		if containsWord(command, word) {
			return true
		}
	}
	return containsAnyOf(command, greetingPhrases)
}

func (c *Classifier) isThanks(_ context.Context, command string) bool {
	return containsAnyOf(command, thanksTriggers)
}

func (c *Classifier) isHelp(_ context.Context, command string) bool {
	return command == "help me" || containsAnyOf(command, helpTriggers)
}

func (c *Classifier) isProductMention(ctx context.Context, command string) bool {
	return c.vocab != nil && c.vocab.MentionsProduct(ctx, command)
}

func (c *Classifier) isCategoryMention(ctx context.Context, command string) bool {
	return c.vocab != nil && c.vocab.MentionsCategory(ctx, command)
}

func containsAnyOf(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}

// containsWord reports whether w appears in s as a whole word. Words are
// runs of letters and digits.
func containsWord(s, w string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return !isWordRune(r)
	}) {
		if field == w {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '\'' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// afterPhrase returns the part of s following the first occurrence of
// phrase, or "" when absent.
func afterPhrase(s, phrase string) string {
	idx := strings.Index(s, phrase)
	if idx < 0 {
		return ""
	}
	return s[idx+len(phrase):]
}
