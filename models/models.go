package models

import "time"

// Product is one catalog entry. The id is stable once issued; everything else
// is editable from the admin panel.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	InStock     bool    `json:"inStock"`
	Brand       string  `json:"brand,omitempty"`
	Volume      string  `json:"volume,omitempty"`
}

// CartLine is the persisted shape of one cart entry: a product reference plus
// a quantity. The product itself is resolved at read time.
type CartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CartItem is a materialized line: the live product joined with its quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Roles.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
	RoleGuest   = "guest"
)

// User is a registered identity. PasswordHash is only ever written to the
// roster slot; the session copy is sanitized before persisting.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Role         string `json:"role"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// Chat statuses.
const (
	ChatOpen   = "open"
	ChatClosed = "closed"
)

// Chat is one conversation thread. Exactly one of GuestID/UserID is set: a
// chat belongs to one non-staff actor, never to staff.
type Chat struct {
	ID            string    `json:"id"`
	GuestID       string    `json:"guestId,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Status        string    `json:"status"`
}

// ChatMessage is append-only and immutable once created.
type ChatMessage struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chatId"`
	SenderRole string    `json:"senderRole"`
	SenderID   string    `json:"senderId,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Order statuses. Any status is reachable from any other; there is no
// transition graph.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusCollected  = "collected"
	StatusReady      = "ready"
)

// OrderData is the contact/delivery/payment block captured at checkout. Email
// is the only linkage between an order and an identity.
type OrderData struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DeliveryMethod string `json:"deliveryMethod"`
	Address        string `json:"address,omitempty"`
	PaymentMethod  string `json:"paymentMethod"`
	Comment        string `json:"comment,omitempty"`
	UserID         string `json:"userId,omitempty"`
}

// Order is one archive entry. Status is the only field mutated after creation.
type Order struct {
	ID         string     `json:"id"`
	Items      []CartItem `json:"items"`
	OrderData  OrderData  `json:"orderData"`
	TotalPrice float64    `json:"totalPrice"`
	TotalItems int        `json:"totalItems"`
	Date       time.Time  `json:"date"`
	Status     string     `json:"status"`
}

// Index is the payload carried on the event bus.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
}

// PartnerApplication is the partnership form handed to the outbound
// form-submission endpoint; nothing is archived locally.
type PartnerApplication struct {
	CompanyName   string `json:"companyName"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Message       string `json:"message,omitempty"`
}
