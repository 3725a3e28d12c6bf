package security

// In-memory client registry (replace with DB/config later)
type Client struct {
	ID      string
	Secret  string
	Role    string   // "customer" or "admin"
	Perms   []string // e.g. {"cart.write","orders.read"}
	Enabled bool
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var Clients = map[string]Client{
	"storefront-web": {
		ID:      "storefront-web",
		Secret:  "storefront-secret",
		Role:    RoleCustomer,
		Perms:   []string{"catalog.read", "cart.read", "cart.write", "orders.read", "orders.write"},
		Enabled: true,
	},
	"storefront-mobile": {
		ID:      "storefront-mobile",
		Secret:  "mobile-secret",
		Role:    RoleCustomer,
		Perms:   []string{"catalog.read", "cart.read", "cart.write", "orders.read", "orders.write"},
		Enabled: true,
	},
	"backoffice": {
		ID:      "backoffice",
		Secret:  "backoffice-secret",
		Role:    RoleAdmin,
		Perms:   []string{"catalog.read", "catalog.write", "orders.read", "orders.admin"},
		Enabled: true,
	},
}
