package store

// CartItem is one line of a session's cart. At most one line exists per
// (session_uid, product_id) pair; adding the same product again bumps the
// quantity instead of inserting a second line.
type CartItem struct {
	ID         int32
	SessionUID string
	ProductID  int32
	Quantity   int32
	CreatedTs  int64
}

// CartLine is a cart item joined with its product, the shape the assistant
// and the API read.
type CartLine struct {
	Product  *Product
	Quantity int32
}

// Subtotal returns the quantity-weighted effective price of the line.
func (l *CartLine) Subtotal() float64 {
	return l.Product.EffectivePrice() * float64(l.Quantity)
}

type FindCartItem struct {
	SessionUID *string
	ProductID  *int32
}

// UpsertCartItem inserts a line with quantity 1 or increments the existing
// line for the same product.
type UpsertCartItem struct {
	SessionUID string
	ProductID  int32
}

type UpdateCartItem struct {
	SessionUID string
	ProductID  int32
	Quantity   int32
}

type DeleteCartItem struct {
	SessionUID string
	// ProductID nil clears the whole cart for the session.
	ProductID *int32
}
