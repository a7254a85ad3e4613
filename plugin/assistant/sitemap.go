package assistant

import (
	"strings"
)

// Section describes one navigable area of the storefront.
type Section struct {
	Name        string
	Path        string
	Description string
	Aliases     []string
}

// siteSections is the static registry of storefront sections the assistant
// can describe and navigate to. Order matters: resolution scans top to
// bottom and the first hit wins.
var siteSections = []Section{
	{
		Name:        "Home",
		Path:        "/",
		Description: "The main page of our store featuring featured products and current promotions.",
		Aliases:     []string{"main page", "homepage", "front page"},
	},
	{
		Name:        "Categories",
		Path:        "/categories",
		Description: "Browse all product categories including Electronics, Clothing, Kitchen, Accessories, Footwear, and Home.",
		Aliases:     []string{"product categories", "browse categories", "all categories"},
	},
	{
		Name:        "Orders",
		Path:        "/orders",
		Description: "View your order history, track current orders, and manage returns.",
		Aliases:     []string{"order history", "my orders", "purchase history", "order tracking"},
	},
	{
		Name:        "Wishlist",
		Path:        "/wishlist",
		Description: "Products you've saved for later. You can add items to your wishlist by clicking the heart icon on any product.",
		Aliases:     []string{"saved items", "favorites", "saved for later"},
	},
	{
		Name:        "Deals",
		Path:        "/deals",
		Description: "Current promotions, discounts, and special offers available in our store.",
		Aliases:     []string{"promotions", "discounts", "sales", "special offers"},
	},
	{
		Name:        "Account",
		Path:        "/account",
		Description: "Manage your account settings, personal information, payment methods, and preferences.",
		Aliases:     []string{"profile", "my account", "settings", "personal info"},
	},
	{
		Name:        "Cart",
		Path:        "/cart",
		Description: "View and manage items in your shopping cart before checkout.",
		Aliases:     []string{"shopping cart", "my cart", "checkout"},
	},
	{
		Name:        "Gift Cards",
		Path:        "/gift-cards",
		Description: "Purchase gift cards or check your gift card balance.",
		Aliases:     []string{"gift certificates", "gift vouchers"},
	},
	{
		Name:        "Payment Methods",
		Path:        "/payment-methods",
		Description: "Manage your saved payment methods and add new ones.",
		Aliases:     []string{"payment options", "credit cards", "payment info"},
	},
}

// productCategories is the closed category set of the storefront.
var productCategories = []string{"electronics", "clothing", "kitchen", "accessories", "footwear", "home"}

// SiteSections returns the section registry.
func SiteSections() []Section {
	return siteSections
}

// findSectionIn returns the first section whose name or alias appears as a
// substring of the given text.
func findSectionIn(text string) *Section {
	for i := range siteSections {
		section := &siteSections[i]
		if strings.Contains(text, strings.ToLower(section.Name)) {
			return section
		}
		for _, alias := range section.Aliases {
			if strings.Contains(text, strings.ToLower(alias)) {
				return section
			}
		}
	}
	return nil
}

// findSectionByPage matches a page identifier (path segment or full path)
// against the registry.
func findSectionByPage(pageName, path string) *Section {
	for i := range siteSections {
		section := &siteSections[i]
		if strings.EqualFold(section.Name, pageName) || section.Path == path {
			return section
		}
	}
	return nil
}

// findCategoryIn returns the category contained in the text, or "".
func findCategoryIn(text string) string {
	for _, category := range productCategories {
		if strings.Contains(text, category) {
			return category
		}
	}
	return ""
}
