package products

import (
	"errors"
	"strings"

	"progressgarant/globals"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/mq"
	"progressgarant/utils"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrInvalid  = errors.New("invalid product fields")
)

// Repo owns the product collection. Every read path seeds first, so callers
// never observe an empty first-run catalog; every mutation persists and then
// emits exactly one product-changed event.
type Repo struct {
	store   kv.Store
	session kv.Store
	bus     *mq.Emitter
}

func New(store, session kv.Store, bus *mq.Emitter) *Repo {
	return &Repo{store: store, session: session, bus: bus}
}

// Patch carries admin edits; nil fields are left untouched. The id itself is
// immutable.
type Patch struct {
	Name        *string
	Price       *float64
	Image       *string
	Category    *string
	Description *string
	InStock     *bool
	Brand       *string
	Volume      *string
}

// EnsureSeeded populates the persistent collection on first use: the fixed
// seed catalog followed by whatever the legacy session slot holds, deduped by
// id with the seed winning, and the slot consumed. Idempotent - a non-empty
// collection makes this a no-op.
func (r *Repo) EnsureSeeded() error {
	existing := kv.ReadJSON(r.store, globals.KeyProducts, []models.Product(nil))
	if len(existing) > 0 {
		return nil
	}

	catalog := SeedCatalog()
	seen := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		seen[p.ID] = true
	}

	legacy := kv.ReadJSON(r.session, globals.KeySessionProducts, []models.Product(nil))
	for _, p := range legacy {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		catalog = append(catalog, p)
	}
	r.session.Delete(globals.KeySessionProducts)

	return kv.WriteJSON(r.store, globals.KeyProducts, catalog)
}

// List returns the full collection in insertion order: admin-added products
// first (most recent leading), seed products in their fixed order after.
func (r *Repo) List() ([]models.Product, error) {
	if err := r.EnsureSeeded(); err != nil {
		return nil, err
	}
	return kv.ReadJSON(r.store, globals.KeyProducts, []models.Product{}), nil
}

// Added returns only the products created through the admin panel, i.e.
// everything outside the reserved seed ids.
func (r *Repo) Added() ([]models.Product, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	seedIDs := make(map[string]bool, len(seedCatalog))
	for _, p := range seedCatalog {
		seedIDs[p.ID] = true
	}
	var out []models.Product
	for _, p := range all {
		if !seedIDs[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Filter narrows the catalog the way the storefront's filter panel does.
// An empty string, the "Все товары" category or the "Все бренды" brand
// means no constraint on that axis.
func (r *Repo) Filter(category, brand string) ([]models.Product, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	if category == Categories[0] {
		category = ""
	}
	if brand == Brands[0] {
		brand = ""
	}
	out := []models.Product{}
	for _, p := range all {
		if category != "" && p.Category != category {
			continue
		}
		if brand != "" && p.Brand != brand {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get resolves a single product by id.
func (r *Repo) Get(id string) (models.Product, error) {
	all, err := r.List()
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range all {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

// Add validates the draft, assigns a fresh id when none is given and prepends
// the product to the collection.
func (r *Repo) Add(draft models.Product) (models.Product, error) {
	all, err := r.List()
	if err != nil {
		return models.Product{}, err
	}

	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Category = strings.TrimSpace(draft.Category)
	if draft.Name == "" || draft.Description == "" || draft.Category == "" || draft.Price <= 0 {
		return models.Product{}, ErrInvalid
	}
	if draft.ID == "" {
		draft.ID = utils.NewID()
	}

	next := append([]models.Product{draft}, all...)
	if err := kv.WriteJSON(r.store, globals.KeyProducts, next); err != nil {
		return models.Product{}, err
	}
	r.emit("POST", draft.ID)
	return draft, nil
}

// Update merges the patch onto the stored record.
func (r *Repo) Update(id string, patch Patch) (models.Product, error) {
	all, err := r.List()
	if err != nil {
		return models.Product{}, err
	}

	idx := -1
	for i, p := range all {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Product{}, ErrNotFound
	}

	updated := all[idx]
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	if patch.Image != nil {
		updated.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Category != nil {
		updated.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		updated.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.InStock != nil {
		updated.InStock = *patch.InStock
	}
	if patch.Brand != nil {
		updated.Brand = *patch.Brand
	}
	if patch.Volume != nil {
		updated.Volume = *patch.Volume
	}
	if updated.Name == "" || updated.Description == "" || updated.Category == "" || updated.Price <= 0 {
		return models.Product{}, ErrInvalid
	}

	all[idx] = updated
	if err := kv.WriteJSON(r.store, globals.KeyProducts, all); err != nil {
		return models.Product{}, err
	}
	r.emit("PUT", id)
	return updated, nil
}

// Remove hard-deletes by id. Removing an absent id is not an error.
func (r *Repo) Remove(id string) error {
	all, err := r.List()
	if err != nil {
		return err
	}

	next := all[:0]
	for _, p := range all {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if err := kv.WriteJSON(r.store, globals.KeyProducts, next); err != nil {
		return err
	}
	r.emit("DELETE", id)
	return nil
}

func (r *Repo) emit(method, id string) {
	if r.bus == nil {
		return
	}
	r.bus.Emit(globals.TopicProducts, models.Index{
		EntityType: "product",
		Method:     method,
		EntityId:   id,
	})
}
