package globals

// Storage keys. The persistent substrate is shared by every repository, so the
// key layout lives in one place; no repository touches another family's key.
const (
	KeyUser     = "progressgarant_user"
	KeyUsers    = "progressgarant_users"
	KeyToken    = "progressgarant_token"
	KeyCart     = "progressgarant_cart"
	KeyProducts = "progressgarant_products"
	KeyChats    = "progressgarant_chats"
	KeyMessages = "progressgarant_messages"
	KeyGuestID  = "progressgarant_guest_id"
	KeyOrders   = "progressgarant_orders"

	// Session-tier slot holding admin-added products from the legacy build,
	// consumed once during seeding.
	KeySessionProducts = "progressgarant_session_products"
)

// Event topics.
const (
	TopicProducts = "progressgarant_products_updated"
)

var (
	JwtSecret = []byte("your_secret_key") // Replace with a secure secret key
)
