package domain

// Product is the catalog entry and the carrier of the stock counter.
// Amount is the available quantity; InStock is the derived visibility flag:
// it may only be true while Amount > 0 and Active is set.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	CategoryID  string
	Images      []string
	Colors      []string
	Sizes       []string
	Amount      int
	Active      bool
	InStock     bool
}

// Visible recomputes the visibility flag from its inputs. Store writes
// must keep InStock equal to this at all times.
func (p Product) Visible() bool {
	return p.Active && p.Amount > 0
}

type Category struct {
	ID       string
	Name     string
	ImageURL string
}
