package models

// PayloadKind identifies which of the recognized inbound payload structures
// a webhook body matched.
type PayloadKind string

const (
	// KindCommerce is the inline commerce-order shape: a billing sub-object
	// plus a line_items list.
	KindCommerce PayloadKind = "commerce"
	// KindAdHoc is the loose shape used by custom store plugins: a top-level
	// email field with loosely named equivalents for the rest.
	KindAdHoc PayloadKind = "ad_hoc"
	// KindReference carries only an order identifier; the full record must be
	// fetched from the commerce API.
	KindReference PayloadKind = "reference"
)

// Billing is the commerce-order billing sub-object. Only the fields the relay
// reads are mapped; everything else is ignored.
type Billing struct {
	Email             string `mapstructure:"email"`
	FirstName         string `mapstructure:"first_name"`
	MinecraftUsername string `mapstructure:"minecraft_username"`
}

// LineItem is a single purchased product on a commerce order.
type LineItem struct {
	Name string `mapstructure:"name"`
}

// MetaEntry is one key/value pair from a commerce order's meta_data list.
type MetaEntry struct {
	Key   string `mapstructure:"key"`
	Value any    `mapstructure:"value"`
}

// CommerceOrder is the typed view of the inline commerce-order shape (and of
// records fetched from the commerce API, which share it).
type CommerceOrder struct {
	ID                 any            `mapstructure:"id"`
	Number             any            `mapstructure:"number"`
	Status             string         `mapstructure:"status"`
	Total              any            `mapstructure:"total"`
	PaymentMethodTitle string         `mapstructure:"payment_method_title"`
	PaymentMethod      string         `mapstructure:"payment_method"`
	Billing            Billing        `mapstructure:"billing"`
	LineItems          []LineItem     `mapstructure:"line_items"`
	MetaData           []MetaEntry    `mapstructure:"meta_data"`
	CustomFields       map[string]any `mapstructure:"custom_fields"`
	MinecraftUsername  string         `mapstructure:"minecraft_username"`
}

// AdHocOrder is the typed view of the loose top-level shape. Each canonical
// field has its own chain of alternative source fields.
type AdHocOrder struct {
	CustomerEmail     string         `mapstructure:"customer_email"`
	Email             string         `mapstructure:"email"`
	Products          any            `mapstructure:"products"`
	Items             any            `mapstructure:"items"`
	OrderID           any            `mapstructure:"order_id"`
	ID                any            `mapstructure:"id"`
	Status            string         `mapstructure:"status"`
	Total             any            `mapstructure:"total"`
	Amount            any            `mapstructure:"amount"`
	PaymentMethod     string         `mapstructure:"payment_method"`
	MinecraftUsername string         `mapstructure:"minecraft_username"`
	MetaData          []MetaEntry    `mapstructure:"meta_data"`
	CustomFields      map[string]any `mapstructure:"custom_fields"`
}

// OrderReference is the bare-identifier shape.
type OrderReference struct {
	ID any `mapstructure:"id"`
}

// InboundOrder is the tagged union produced by payload classification.
// Exactly one of the variant pointers is non-nil, matching Kind.
type InboundOrder struct {
	Kind      PayloadKind
	Commerce  *CommerceOrder
	AdHoc     *AdHocOrder
	Reference *OrderReference
}

// Sentinel values substituted for absent optional fields so rendering stays
// total.
const (
	UnknownValue    = "unknown"
	UnknownUsername = "Unknown"
	NoProducts      = "no products"
)

// OrderSummary is the canonical, normalized view of an inbound order. It is
// derived per webhook call and never persisted; the only identity that
// survives into the decision round-trip is what the review prompt encodes.
type OrderSummary struct {
	OrderID            string
	CustomerEmail      string
	ProductDescription string
	TotalAmount        string
	Status             string
	PaymentMethod      string
	MinecraftUsername  string
}
