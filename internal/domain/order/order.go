package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type Address struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ZipCode      string `json:"zipCode"`
	Street       string `json:"address"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type Order struct {
	ID              int64           `json:"id"`
	Number          string          `json:"order_number"`
	UserID          *string         `json:"user_id,omitempty"`
	Total           decimal.Decimal `json:"total"`
	Discount        decimal.Decimal `json:"discount"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Status          Status          `json:"status"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []Item          `json:"items"`
}

type Item struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Size       string          `json:"size,omitempty"`
	Color      string          `json:"color,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Request is the checkout submission sent by the storefront.
type Request struct {
	UserID          string        `json:"userId,omitempty"`
	Email           string        `json:"email,omitempty"`
	Items           []RequestItem `json:"items"`
	ShippingMethod  string        `json:"shippingMethod"`
	PaymentMethod   string        `json:"paymentMethod"`
	ShippingAddress *Address      `json:"shippingAddress,omitempty"`
}

type RequestItem struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// Receipt is returned once an order has been paid and stored.
type Receipt struct {
	OrderNumber    string          `json:"orderNumber"`
	Status         Status          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	ShippingMethod string          `json:"shippingMethod"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
}
