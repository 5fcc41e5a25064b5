// Package orders is the append-only order archive plus the checkout flow
// that feeds it.
package orders

import (
	"errors"
	"log"
	"sort"
	"time"

	"progressgarant/cart"
	"progressgarant/globals"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/utils"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)

// Repo reads and writes the order slot. The submitter is the outbound form
// endpoint used at checkout; nil disables submission (tests, offline use).
type Repo struct {
	store     kv.Store
	submitter *FormClient
}

func New(store kv.Store, submitter *FormClient) *Repo {
	return &Repo{store: store, submitter: submitter}
}

// Append archives an order. The archive itself may hold any order; read
// paths sort by date.
func (r *Repo) Append(order models.Order) error {
	all := r.read()
	all = append(all, order)
	return kv.WriteJSON(r.store, globals.KeyOrders, all)
}

// List returns the archive most-recent-first.
func (r *Repo) List() []models.Order {
	all := r.read()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})
	return all
}

// ListForEmail filters the archive by exact email match. Email is the only
// linkage between an order and an identity, so an order belongs to whoever
// used that address at checkout, guests included.
func (r *Repo) ListForEmail(email string) []models.Order {
	var out []models.Order
	for _, o := range r.List() {
		if o.OrderData.Email == email {
			out = append(out, o)
		}
	}
	return out
}

// Get resolves one order by id.
func (r *Repo) Get(orderID string) (models.Order, error) {
	for _, o := range r.read() {
		if o.ID == orderID {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// SetStatus rewrites the one mutable field. All seven statuses are legal
// from any state; there is no transition graph.
func (r *Repo) SetStatus(orderID, status string) error {
	switch status {
	case models.StatusPending, models.StatusProcessing, models.StatusShipped,
		models.StatusDelivered, models.StatusCancelled, models.StatusCollected,
		models.StatusReady:
	default:
		return errors.New("unknown order status")
	}

	all := r.read()
	for i, o := range all {
		if o.ID == orderID {
			all[i].Status = status
			return kv.WriteJSON(r.store, globals.KeyOrders, all)
		}
	}
	return ErrOrderNotFound
}

// Checkout materializes the cart, hands the flattened order to the outbound
// form endpoint, archives it locally and clears the cart. The remote call is
// fire-and-forget: its failure never rolls back the local archive write.
func (r *Repo) Checkout(c *cart.Repo, data models.OrderData, user *models.User) (models.Order, error) {
	items, totalItems, totalPrice, err := c.Materialize()
	if err != nil {
		return models.Order{}, err
	}
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if user != nil {
		data.UserID = user.ID
	}

	order := models.Order{
		ID:         utils.NewID(),
		Items:      items,
		OrderData:  data,
		TotalPrice: totalPrice,
		TotalItems: totalItems,
		Date:       time.Now(),
		Status:     models.StatusPending,
	}

	if r.submitter != nil {
		if err := r.submitter.SubmitOrder(order, user); err != nil {
			log.Printf("orders: remote submission failed, keeping local archive: %v", err)
		}
	}

	if err := r.Append(order); err != nil {
		return models.Order{}, err
	}
	if err := c.Clear(); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (r *Repo) read() []models.Order {
	return kv.ReadJSON(r.store, globals.KeyOrders, []models.Order(nil))
}
