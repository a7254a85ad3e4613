package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/voicecart/voicecart/store"
)

// FormatPrice renders an amount the way replies quote prices, two decimal
// places and no currency sign.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// composeCartDetails enumerates cart lines as
// "2 Wireless Headphones at $110.49 each, 1 Table Lamp at $39.99 each."
func composeCartDetails(lines []*store.CartLine) string {
	var b strings.Builder
	b.WriteString(" Your cart contains: ")
	for i, line := range lines {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d %s at $%s each", line.Quantity, line.Product.Name, FormatPrice(line.Product.EffectivePrice()))
	}
	b.WriteString(".")
	return b.String()
}

// composePriceQuote renders the price sentence fragment for product
// information, including the discount parenthetical when one applies.
func composePriceQuote(p *store.Product) string {
	if p.Discount == nil || *p.Discount == 0 {
		return "$" + FormatPrice(p.Price)
	}
	return fmt.Sprintf("$%s (%d%% off the original price of $%s)",
		FormatPrice(p.EffectivePrice()), *p.Discount, FormatPrice(p.Price))
}

// formatRating renders a star rating without trailing zeros, "4.5" and "4"
// rather than "4.50" and "4.0".
func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

// pluralSuffix returns "s" for any count other than one.
func pluralSuffix(count int32) string {
	if count == 1 {
		return ""
	}
	return "s"
}
