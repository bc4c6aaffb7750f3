package cart

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Engine holds the cart and the favorites list of one storefront. Both are ordered by
// insertion and never hold two entries with the same product id.
//
// Engine is not safe for concurrent use; callers serialise access.
type Engine struct {
	items     []domain.Product
	favorites []domain.Product
}

func New() *Engine {
	return &Engine{}
}

// Items returns a copy of the cart lines in insertion order.
func (e *Engine) Items() []domain.Product {
	return clone(e.items)
}

// Favorites returns a copy of the favorites in insertion order.
func (e *Engine) Favorites() []domain.Product {
	return clone(e.favorites)
}

func (e *Engine) InCart(id string) bool {
	return indexOf(e.items, id) >= 0
}

func (e *Engine) IsFavorite(id string) bool {
	return indexOf(e.favorites, id) >= 0
}

// AddToCart appends p unless a line with the same id already exists.
func (e *Engine) AddToCart(p domain.Product) {
	if e.InCart(p.ID) {
		return
	}
	if p.Quantity < 1 {
		p.Quantity = 1
	}
	e.items = append(e.items, p)
}

func (e *Engine) RemoveFromCart(id string) {
	e.items = removeID(e.items, id)
}

func (e *Engine) ToggleCart(p domain.Product) {
	if e.InCart(p.ID) {
		e.RemoveFromCart(p.ID)
		return
	}
	e.AddToCart(p)
}

func (e *Engine) IncreaseQuantity(id string) {
	if i := indexOf(e.items, id); i >= 0 {
		e.items[i].Quantity++
	}
}

// DecreaseQuantity lowers the line quantity by one and drops the line when it was at 1.
func (e *Engine) DecreaseQuantity(id string) {
	i := indexOf(e.items, id)
	if i < 0 {
		return
	}
	if e.items[i].Quantity > 1 {
		e.items[i].Quantity--
		return
	}
	e.items = removeID(e.items, id)
}

func (e *Engine) ToggleSelected(id string) {
	if i := indexOf(e.items, id); i >= 0 {
		e.items[i].Selected = !e.items[i].Selected
	}
}

func (e *Engine) AddToFavorites(p domain.Product) {
	if e.IsFavorite(p.ID) {
		return
	}
	e.favorites = append(e.favorites, p)
}

func (e *Engine) RemoveFromFavorites(id string) {
	e.favorites = removeID(e.favorites, id)
}

func (e *Engine) ToggleFavorite(p domain.Product) {
	if e.IsFavorite(p.ID) {
		e.RemoveFromFavorites(p.ID)
		return
	}
	e.AddToFavorites(p)
}

// SelectedItems returns the selected lines in cart order.
func (e *Engine) SelectedItems() []domain.Product {
	var out []domain.Product
	for _, item := range e.items {
		if item.Selected {
			out = append(out, item)
		}
	}
	return out
}

func (e *Engine) TotalSelectedQuantity() int {
	total := 0
	for _, item := range e.items {
		if item.Selected {
			total += item.Quantity
		}
	}
	return total
}

// TotalSelectedAmount sums price times quantity over the selected lines and renders it as
// "$" followed by exactly two decimals. Unparsable prices count as zero.
func (e *Engine) TotalSelectedAmount() string {
	total := decimal.Zero
	for _, item := range e.items {
		if !item.Selected {
			continue
		}
		total = total.Add(ParsePrice(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return FormatAmount(total)
}

// RemoveSelected drops every selected line and returns what was removed.
func (e *Engine) RemoveSelected() []domain.Product {
	var removed []domain.Product
	kept := e.items[:0]
	for _, item := range e.items {
		if item.Selected {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	e.items = kept
	return removed
}

// ParsePrice reads a price string such as "$120.0". A leading currency symbol is skipped.
// Anything that is not a number afterwards yields zero.
func ParsePrice(price string) decimal.Decimal {
	s := strings.TrimSpace(price)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '+' && r != '.'
	})
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func indexOf(list []domain.Product, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func removeID(list []domain.Product, id string) []domain.Product {
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	return append(list[:i], list[i+1:]...)
}

func clone(list []domain.Product) []domain.Product {
	out := make([]domain.Product, len(list))
	copy(out, list)
	return out
}
