package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicecart/voicecart/store"
)

// maxAttachedProducts caps the products attached to a single reply.
const maxAttachedProducts = 3

// Catalog is the product lookup surface the interpreter consumes.
type Catalog interface {
	// All returns the full catalog.
	All(ctx context.Context) ([]*store.Product, error)
	// Search returns products whose name, description, or category
	// contains the term, case insensitively.
	Search(ctx context.Context, term string) ([]*store.Product, error)
}

// CartService is the cart mutation surface for one session.
type CartService interface {
	Lines(ctx context.Context) ([]*store.CartLine, error)
	Add(ctx context.Context, productID int32) error
	Remove(ctx context.Context, productID int32) error
	Total(ctx context.Context) (float64, error)
}

// Reply is the outcome of interpreting one command. Remember carries the
// products the conversation context should retain for follow-ups; the
// session applies it only after deciding the turn is still live.
type Reply struct {
	Message  string
	Products []*store.Product
	Action   Action
	Remember []*store.Product
}

// Interpreter turns normalized commands into replies. It is stateless
// across turns; all per-conversation state lives in ConversationContext.
type Interpreter struct {
	catalog    Catalog
	cart       CartService
	classifier *Classifier
	userName   string
}

// NewInterpreter creates an interpreter over the given collaborators.
// userName, when set, personalizes greetings.
func NewInterpreter(catalog Catalog, cart CartService, userName string) *Interpreter {
	i := &Interpreter{
		catalog:  catalog,
		cart:     cart,
		userName: userName,
	}
	i.classifier = NewClassifier(&catalogVocabulary{catalog: catalog})
	return i
}

// Resolve interprets one normalized command against the conversation
// context and produces a reply. Cart mutations happen here; UI side
// effects are returned as the reply's Action for the caller to dispatch.
func (i *Interpreter) Resolve(ctx context.Context, command string, conv *ConversationContext) (*Reply, error) {
	switch i.classifier.Classify(ctx, command) {
	case IntentPageQuery:
		return i.resolvePageQuery(ctx, conv)
	case IntentNavigation:
		return i.resolveNavigation(ctx, command)
	case IntentSearch:
		return i.resolveSearch(ctx, command)
	case IntentAddToCart:
		return i.resolveAddToCart(ctx, command, conv)
	case IntentRemoveFromCart:
		return i.resolveRemoveFromCart(ctx, command)
	case IntentInformation:
		return i.resolveInformation(ctx, command, conv)
	case IntentCartStatus:
		return i.resolveCartStatus(ctx)
	case IntentGreeting:
		return i.resolveGreeting(), nil
	case IntentThanks:
		return &Reply{Message: "You're welcome! Is there anything else I can help you with?"}, nil
	case IntentHelp:
		return &Reply{Message: "I can help you find products, navigate the website, add items to your cart, and answer questions about our store. Try saying things like 'find headphones', 'show me clothing', 'add to cart', or 'what's in my cart?'"}, nil
	case IntentProductMention:
		return i.resolveProductMention(ctx, command)
	case IntentCategoryMention:
		return i.resolveCategoryMention(ctx, command)
	default:
		return &Reply{Message: "I'm not sure how to help with that. You can ask me to find products, navigate to different sections, add items to your cart, or get information about the website."}, nil
	}
}

func (i *Interpreter) resolveSearch(ctx context.Context, command string) (*Reply, error) {
	term := extractSearchTerm(command)

	if term == "" {
		if category := findCategoryIn(command); category != "" {
			return &Reply{
				Message: fmt.Sprintf("Here are our %s products:", category),
				Action:  Action{Type: ActionCategory, Arg: category},
			}, nil
		}
		return &Reply{Message: "What would you like me to search for?"}, nil
	}

	matches, err := i.catalog.Search(ctx, term)
	if err != nil {
		return nil, CollaboratorFailed("catalog search failed", err)
	}
	if len(matches) == 0 {
		return &Reply{
			Message: fmt.Sprintf("I couldn't find any products matching %q. Would you like to try a different search term?", term),
		}, nil
	}

	attached := matches
	if len(attached) > maxAttachedProducts {
		attached = attached[:maxAttachedProducts]
	}
	return &Reply{
		Message:  fmt.Sprintf("I found %d products matching %q. Here are some results:", len(matches), term),
		Products: attached,
		Action:   Action{Type: ActionSearch, Arg: term},
		Remember: attached,
	}, nil
}

func (i *Interpreter) resolveAddToCart(ctx context.Context, command string, conv *ConversationContext) (*Reply, error) {
	name := extractAddProductName(command)

	if name == "" {
		remembered := conv.LastFoundProducts()
		if len(remembered) > 0 {
			return i.addProduct(ctx, remembered[0])
		}
		return &Reply{Message: "Which product would you like to add to your cart?"}, nil
	}

	product, err := i.findByNameOrCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return &Reply{
			Message: fmt.Sprintf("I couldn't find a product called %q. Would you like me to search for it?", name),
		}, nil
	}
	return i.addProduct(ctx, product)
}

func (i *Interpreter) addProduct(ctx context.Context, product *store.Product) (*Reply, error) {
	if err := i.cart.Add(ctx, product.ID); err != nil {
		return nil, CollaboratorFailed("cart add failed", err)
	}
	total, err := i.cart.Total(ctx)
	if err != nil {
		return nil, CollaboratorFailed("cart total failed", err)
	}
	return &Reply{
		Message: fmt.Sprintf("I've added %s to your cart. Your cart total is now $%s.", product.Name, FormatPrice(total)),
		Action:  Action{Type: ActionAddToCart, Arg: fmt.Sprintf("%d", product.ID)},
	}, nil
}

func (i *Interpreter) resolveRemoveFromCart(ctx context.Context, command string) (*Reply, error) {
	name := extractRemoveProductName(command)

	lines, err := i.cart.Lines(ctx)
	if err != nil {
		return nil, CollaboratorFailed("cart read failed", err)
	}

	if name == "" {
		switch len(lines) {
		case 0:
			return &Reply{Message: "Your cart is empty. There's nothing to remove."}, nil
		case 1:
			return i.removeLine(ctx, lines[0], len(lines))
		default:
			return &Reply{
				Message: fmt.Sprintf("Which product would you like to remove from your cart? You have %d items in your cart.", len(lines)),
			}, nil
		}
	}

	for _, line := range lines {
		if strings.Contains(strings.ToLower(line.Product.Name), strings.ToLower(name)) {
			return i.removeLine(ctx, line, len(lines))
		}
	}
	return &Reply{
		Message: fmt.Sprintf("I couldn't find %q in your cart. Please check your cart to see what items you have.", name),
	}, nil
}

func (i *Interpreter) removeLine(ctx context.Context, line *store.CartLine, lineCount int) (*Reply, error) {
	if err := i.cart.Remove(ctx, line.Product.ID); err != nil {
		return nil, CollaboratorFailed("cart remove failed", err)
	}
	if lineCount <= 1 {
		return &Reply{
			Message: fmt.Sprintf("I've removed %s from your cart. Your cart is now empty.", line.Product.Name),
		}, nil
	}
	total, err := i.cart.Total(ctx)
	if err != nil {
		return nil, CollaboratorFailed("cart total failed", err)
	}
	return &Reply{
		Message: fmt.Sprintf("I've removed %s from your cart. Your cart total is now $%s.", line.Product.Name, FormatPrice(total)),
	}, nil
}

func (i *Interpreter) resolveNavigation(ctx context.Context, command string) (*Reply, error) {
	destination := extractDestination(command)
	if destination == "" {
		return &Reply{
			Message: "Where would you like to go? You can navigate to Home, Categories, Orders, Wishlist, Deals, or Account.",
		}, nil
	}

	// Common destinations get dedicated phrasing.
	switch destination {
	case "cart", "my cart", "shopping cart":
		return &Reply{Message: "Taking you to your cart.", Action: Action{Type: ActionNavigate, Arg: "/cart"}}, nil
	case "home", "homepage", "main page":
		return &Reply{Message: "Taking you to the home page.", Action: Action{Type: ActionNavigate, Arg: "/"}}, nil
	case "categories", "category page":
		return &Reply{Message: "Taking you to the categories page.", Action: Action{Type: ActionNavigate, Arg: "/categories"}}, nil
	case "orders", "my orders", "order history":
		return &Reply{Message: "Taking you to your orders.", Action: Action{Type: ActionNavigate, Arg: "/orders"}}, nil
	case "wishlist", "my wishlist", "saved items":
		return &Reply{Message: "Taking you to your wishlist.", Action: Action{Type: ActionNavigate, Arg: "/wishlist"}}, nil
	}

	if section := findSectionIn(destination); section != nil {
		return &Reply{
			Message: fmt.Sprintf("Navigating to the %s section. %s", section.Name, section.Description),
			Action:  Action{Type: ActionNavigate, Arg: section.Path},
		}, nil
	}

	if category := findCategoryIn(destination); category != "" {
		return &Reply{
			Message: fmt.Sprintf("Showing you our %s collection.", category),
			Action:  Action{Type: ActionCategory, Arg: category},
		}, nil
	}

	if product, err := i.findNamedIn(ctx, destination); err != nil {
		return nil, err
	} else if product != nil {
		return &Reply{
			Message: fmt.Sprintf("Taking you to the %s product page.", product.Name),
			Action:  Action{Type: ActionNavigate, Arg: fmt.Sprintf("/product/%d", product.ID)},
		}, nil
	}

	return &Reply{
		Message: fmt.Sprintf("I couldn't find a section called %q. You can navigate to Home, Categories, Orders, Wishlist, Deals, or Account.", destination),
	}, nil
}

func (i *Interpreter) resolveInformation(ctx context.Context, command string, conv *ConversationContext) (*Reply, error) {
	if strings.Contains(command, "this page") || strings.Contains(command, "current page") {
		return i.resolvePageQuery(ctx, conv)
	}

	product, err := i.findMentioned(ctx, command)
	if err != nil {
		return nil, err
	}
	if product != nil {
		msg := fmt.Sprintf("%s: %s It costs %s and has a rating of %s out of 5 stars. Would you like to see more details or add it to your cart?",
			product.Name, product.Description, composePriceQuote(product), formatRating(product.Rating))
		return &Reply{
			Message:  msg,
			Products: []*store.Product{product},
			Action:   Action{Type: ActionShowProduct, Arg: fmt.Sprintf("%d", product.ID)},
		}, nil
	}

	if section := findSectionIn(command); section != nil {
		return &Reply{
			Message: section.Description,
			Action:  Action{Type: ActionSuggestNavigation, Arg: section.Path},
		}, nil
	}

	switch {
	case strings.Contains(command, "checkout") || strings.Contains(command, "payment"):
		return &Reply{Message: "To checkout, you can add items to your cart and then click the Checkout button. We accept credit cards, PayPal, and Apple Pay. The checkout process is secure and only takes a few minutes to complete."}, nil
	case strings.Contains(command, "shipping") || strings.Contains(command, "delivery"):
		return &Reply{Message: "We offer free standard shipping on all orders over $50. Standard shipping takes 3-5 business days. Express shipping is available for an additional fee and delivers within 1-2 business days."}, nil
	case strings.Contains(command, "return") || strings.Contains(command, "refund"):
		return &Reply{Message: "Our return policy allows you to return items within 30 days of delivery for a full refund. Returns are free and can be initiated from the Orders section of your account."}, nil
	case strings.Contains(command, "promo") || strings.Contains(command, "discount") || strings.Contains(command, "coupon"):
		return &Reply{Message: "You can apply promo codes during checkout. Try using the code 'WELCOME10' for 10% off your first order. We also have seasonal promotions and special offers in our Deals section."}, nil
	}

	return &Reply{Message: "I'm not sure about that specific information. You can ask me about our website sections, shipping, returns, payment methods, or how to use specific features."}, nil
}

func (i *Interpreter) resolveCartStatus(ctx context.Context) (*Reply, error) {
	lines, err := i.cart.Lines(ctx)
	if err != nil {
		return nil, CollaboratorFailed("cart read failed", err)
	}
	if len(lines) == 0 {
		return &Reply{Message: "Your cart is currently empty. Would you like me to help you find some products?"}, nil
	}

	var itemCount int32
	var total float64
	for _, line := range lines {
		itemCount += line.Quantity
		total += line.Subtotal()
	}

	msg := fmt.Sprintf("You have %d item%s in your cart with a total of $%s.%s Would you like to checkout or continue shopping?",
		itemCount, pluralSuffix(itemCount), FormatPrice(total), composeCartDetails(lines))
	return &Reply{Message: msg, Action: Action{Type: ActionSuggestCheckout}}, nil
}

func (i *Interpreter) resolveGreeting() *Reply {
	if i.userName != "" {
		return &Reply{Message: fmt.Sprintf("Hello %s! How can I help with your shopping today?", i.userName)}
	}
	return &Reply{Message: "Hello! How can I help with your shopping today?"}
}

func (i *Interpreter) resolveProductMention(ctx context.Context, command string) (*Reply, error) {
	product, err := i.findMentioned(ctx, command)
	if err != nil {
		return nil, err
	}
	if product == nil {
		// The catalog changed between classification and resolution.
		return i.resolveCategoryMention(ctx, command)
	}
	return &Reply{
		Message:  fmt.Sprintf("I found %s. Would you like to add it to your cart or see more details?", product.Name),
		Products: []*store.Product{product},
		Action:   Action{Type: ActionShowProduct, Arg: fmt.Sprintf("%d", product.ID)},
		Remember: []*store.Product{product},
	}, nil
}

func (i *Interpreter) resolveCategoryMention(ctx context.Context, command string) (*Reply, error) {
	category := findCategoryIn(command)
	if category == "" {
		return &Reply{Message: "I'm not sure how to help with that. You can ask me to find products, navigate to different sections, add items to your cart, or get information about the website."}, nil
	}
	matches, err := i.catalog.Search(ctx, category)
	if err != nil {
		return nil, CollaboratorFailed("catalog search failed", err)
	}
	if len(matches) > maxAttachedProducts {
		matches = matches[:maxAttachedProducts]
	}
	return &Reply{
		Message:  fmt.Sprintf("I can show you our %s collection. Here are some products:", category),
		Products: matches,
		Action:   Action{Type: ActionCategory, Arg: category},
		Remember: matches,
	}, nil
}

func (i *Interpreter) resolvePageQuery(ctx context.Context, conv *ConversationContext) (*Reply, error) {
	description, err := i.currentPageDescription(ctx, conv.CurrentPage())
	if err != nil {
		return nil, err
	}
	return &Reply{Message: description}, nil
}

// currentPageDescription describes the page at the given path.
func (i *Interpreter) currentPageDescription(ctx context.Context, path string) (string, error) {
	pageName := "Home"
	if path != "/" {
		parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
		if len(parts) > 0 {
			pageName = parts[0]
		}
	}

	if pageName == "product" && strings.Contains(path, "/product/") {
		id := strings.TrimPrefix(path, "/product/")
		product, err := i.findByID(ctx, id)
		if err != nil {
			return "", err
		}
		if product != nil {
			discountNote := ""
			if product.Discount != nil && *product.Discount > 0 {
				discountNote = fmt.Sprintf(" (%d%% off)", *product.Discount)
			}
			return fmt.Sprintf("You're viewing the %s product page. This %s costs $%s%s. %s",
				product.Name, strings.ToLower(product.Category), FormatPrice(product.EffectivePrice()), discountNote, product.Description), nil
		}
	}

	if section := findSectionByPage(pageName, path); section != nil {
		return fmt.Sprintf("You're on the %s page. %s", section.Name, section.Description), nil
	}
	return fmt.Sprintf("You're on the %s page.", pageName), nil
}

// findByNameOrCategory matches a product whose name contains the term or
// whose category equals it, the lookup add commands use.
func (i *Interpreter) findByNameOrCategory(ctx context.Context, term string) (*store.Product, error) {
	products, err := i.catalog.All(ctx)
	if err != nil {
		return nil, CollaboratorFailed("catalog read failed", err)
	}
	lower := strings.ToLower(term)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) || strings.ToLower(p.Category) == lower {
			return p, nil
		}
	}
	return nil, nil
}

// findNamedIn matches a product whose full name appears inside the text.
func (i *Interpreter) findNamedIn(ctx context.Context, text string) (*store.Product, error) {
	products, err := i.catalog.All(ctx)
	if err != nil {
		return nil, CollaboratorFailed("catalog read failed", err)
	}
	lower := strings.ToLower(text)
	for _, p := range products {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			return p, nil
		}
	}
	return nil, nil
}

// findMentioned matches a product named in the command, or one whose
// description contains the whole command.
func (i *Interpreter) findMentioned(ctx context.Context, command string) (*store.Product, error) {
	products, err := i.catalog.All(ctx)
	if err != nil {
		return nil, CollaboratorFailed("catalog read failed", err)
	}
	for _, p := range products {
		if strings.Contains(command, strings.ToLower(p.Name)) ||
			strings.Contains(strings.ToLower(p.Description), command) {
			return p, nil
		}
	}
	return nil, nil
}

func (i *Interpreter) findByID(ctx context.Context, id string) (*store.Product, error) {
	products, err := i.catalog.All(ctx)
	if err != nil {
		return nil, CollaboratorFailed("catalog read failed", err)
	}
	for _, p := range products {
		if fmt.Sprintf("%d", p.ID) == id {
			return p, nil
		}
	}
	return nil, nil
}

// catalogVocabulary adapts the catalog to the classifier's vocabulary
// checks. Lookups run against a point-in-time catalog snapshot under the
// turn's context, so a hung catalog hits the turn deadline instead of
// blocking classification; errors degrade to "not mentioned" so
// classification never fails a turn.
type catalogVocabulary struct {
	catalog Catalog
}

func (v *catalogVocabulary) MentionsProduct(ctx context.Context, command string) bool {
	products, err := v.catalog.All(ctx)
	if err != nil {
		return false
	}
	for _, p := range products {
		if strings.Contains(command, strings.ToLower(p.Name)) ||
			strings.Contains(strings.ToLower(p.Description), command) {
			return true
		}
	}
	return false
}

func (v *catalogVocabulary) MentionsCategory(_ context.Context, command string) bool {
	return findCategoryIn(command) != ""
}

func (v *catalogVocabulary) IsCatalogTerm(ctx context.Context, term string) bool {
	products, err := v.catalog.Search(ctx, term)
	if err != nil {
		return false
	}
	return len(products) > 0
}
