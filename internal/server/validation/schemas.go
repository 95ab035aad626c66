package validation

// Schema names a request body shape.
type Schema string

const (
	SchemaUser        Schema = "user"
	SchemaLogin       Schema = "login"
	SchemaUserUpdate  Schema = "userUpdate"
	SchemaProduct     Schema = "product"
	SchemaOrder       Schema = "order"
	SchemaOrderUpdate Schema = "orderUpdate"
	SchemaCart        Schema = "cart"
	SchemaPayment     Schema = "payment"
)

// UserPayload is the registration body. IsAdmin is accepted so that the
// schema matches the user shape, but registration never honours it.
type UserPayload struct {
	Username string `json:"username" validate:"required,min=5,max=50"`
	Email    string `json:"email" validate:"required,min=5,max=255,email"`
	Password string `json:"password" validate:"required,min=5,max=1024"`
	IsAdmin  *bool  `json:"isAdmin"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=1024"`
}

// UserUpdatePayload has the bounds of UserPayload with every field optional.
type UserUpdatePayload struct {
	Username *string `json:"username" validate:"omitempty,min=5,max=50"`
	Email    *string `json:"email" validate:"omitempty,min=5,max=255,email"`
	Password *string `json:"password" validate:"omitempty,min=5,max=1024"`
	IsAdmin  *bool   `json:"isAdmin"`
}

type ProductPayload struct {
	Title      string   `json:"title" validate:"required,min=1,max=255"`
	Desc       string   `json:"desc" validate:"required"`
	Img        string   `json:"img" validate:"required"`
	Categories []string `json:"categories" validate:"omitempty,dive,required"`
	Size       string   `json:"size"`
	Color      string   `json:"color"`
	Price      *float64 `json:"price" validate:"required,min=0"`
}

// LineItem is one product reference inside a cart or an order.
type LineItem struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  *float64 `json:"quantity" validate:"required,min=1"`
}

type OrderPayload struct {
	UserID   string         `json:"userId" validate:"required"`
	Products []LineItem     `json:"products" validate:"required,dive"`
	Amount   *float64       `json:"amount" validate:"required,min=0"`
	Address  map[string]any `json:"address" validate:"required"`
	Status   string         `json:"status" validate:"omitempty,orderstatus"`
}

type OrderUpdatePayload struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

type CartPayload struct {
	UserID   string     `json:"userId"`
	Products []LineItem `json:"products" validate:"required,dive"`
}

// PaymentPayload carries a card token from the client and an amount in the
// smallest currency unit.
type PaymentPayload struct {
	TokenID string `json:"tokenId" validate:"required"`
	Amount  *int64 `json:"amount" validate:"required,min=1"`
}

var registry = map[Schema]func() any{
	SchemaUser:        func() any { return &UserPayload{} },
	SchemaLogin:       func() any { return &LoginPayload{} },
	SchemaUserUpdate:  func() any { return &UserUpdatePayload{} },
	SchemaProduct:     func() any { return &ProductPayload{} },
	SchemaOrder:       func() any { return &OrderPayload{} },
	SchemaOrderUpdate: func() any { return &OrderUpdatePayload{} },
	SchemaCart:        func() any { return &CartPayload{} },
	SchemaPayment:     func() any { return &PaymentPayload{} },
}
