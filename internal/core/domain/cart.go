package domain

// CartLine is one entry in a user's cart. Name, Price and ImageURL are
// snapshotted from the product at add time so later catalog edits do not
// rewrite what the user saw, and so orders can freeze the same values.
type CartLine struct {
	ID        string
	ProductID string
	Name      string
	Price     float64
	ImageURL  string
	Quantity  int
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}
