package store

// Product is a catalog entry. The assistant only ever reads products;
// writes happen through seeding and the admin surface.
type Product struct {
	ID          int32
	Name        string
	Description string
	Category    string
	Price       float64
	// Discount is a percentage in [0, 100], nil when the product is not
	// discounted.
	Discount  *int32
	Rating    float64
	Reviews   int32
	Stock     int32
	ImageURL  string
	CreatedTs int64
}

// EffectivePrice returns the discount-applied unit price.
func (p *Product) EffectivePrice() float64 {
	if p.Discount != nil {
		return p.Price * (1 - float64(*p.Discount)/100)
	}
	return p.Price
}

type FindProduct struct {
	ID       *int32
	Category *string
	// Term matches case-insensitively as a substring of name, description
	// or category.
	Term *string
	// Discounted selects only products with a discount when true.
	Discounted *bool
}

type UpdateProduct struct {
	ID       int32
	Price    *float64
	Discount *int32
	Stock    *int32
}

type DeleteProduct struct {
	ID int32
}
