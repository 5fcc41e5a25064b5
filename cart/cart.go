// Package cart holds the device-local cart: (productId, quantity) lines that
// are joined against the live catalog only at read time.
package cart

import (
	"progressgarant/globals"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/products"
)

// Repo keeps the lines in memory for the life of the process and writes
// through to the substrate on every mutation. Correctness favors durability
// over write amplification; a cart mutates rarely.
type Repo struct {
	store    kv.Store
	products *products.Repo
	lines    []models.CartLine
}

// New loads the persisted lines once. Malformed entries (empty id,
// non-positive quantity) are filtered out silently rather than rejecting the
// whole collection.
func New(store kv.Store, productRepo *products.Repo) *Repo {
	raw := kv.ReadJSON(store, globals.KeyCart, []models.CartLine(nil))
	lines := make([]models.CartLine, 0, len(raw))
	for _, l := range raw {
		if l.ID == "" || l.Quantity <= 0 {
			continue
		}
		lines = append(lines, l)
	}
	return &Repo{store: store, products: productRepo, lines: lines}
}

// Lines returns the raw cart lines in insertion order.
func (r *Repo) Lines() []models.CartLine {
	out := make([]models.CartLine, len(r.lines))
	copy(out, r.lines)
	return out
}

// AddLine increments the quantity of an existing line or appends a new one.
func (r *Repo) AddLine(productID string, qty int) error {
	if productID == "" || qty <= 0 {
		return nil
	}
	for i, l := range r.lines {
		if l.ID == productID {
			r.lines[i].Quantity += qty
			return r.persist()
		}
	}
	r.lines = append(r.lines, models.CartLine{ID: productID, Quantity: qty})
	return r.persist()
}

// SetQuantity overwrites a line's quantity; qty <= 0 removes the line, so a
// stored quantity is always positive.
func (r *Repo) SetQuantity(productID string, qty int) error {
	if qty <= 0 {
		return r.RemoveLine(productID)
	}
	for i, l := range r.lines {
		if l.ID == productID {
			r.lines[i].Quantity = qty
			return r.persist()
		}
	}
	return nil
}

// RemoveLine deletes the line if present.
func (r *Repo) RemoveLine(productID string) error {
	next := r.lines[:0]
	for _, l := range r.lines {
		if l.ID != productID {
			next = append(next, l)
		}
	}
	r.lines = next
	return r.persist()
}

// Clear empties the cart, used after a successful checkout.
func (r *Repo) Clear() error {
	r.lines = nil
	return r.persist()
}

// Materialize joins the lines against the current catalog snapshot. Lines
// whose product no longer resolves are dropped, not errored. Totals are
// recomputed on every call, never cached.
func (r *Repo) Materialize() (items []models.CartItem, totalItems int, totalPrice float64, err error) {
	catalog, err := r.products.List()
	if err != nil {
		return nil, 0, 0, err
	}
	byID := make(map[string]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	items = make([]models.CartItem, 0, len(r.lines))
	for _, l := range r.lines {
		p, ok := byID[l.ID]
		if !ok {
			continue
		}
		items = append(items, models.CartItem{Product: p, Quantity: l.Quantity})
		totalItems += l.Quantity
		totalPrice += p.Price * float64(l.Quantity)
	}
	return items, totalItems, totalPrice, nil
}

func (r *Repo) persist() error {
	lines := r.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return kv.WriteJSON(r.store, globals.KeyCart, lines)
}
