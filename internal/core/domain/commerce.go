package domain

import "github.com/shopspring/decimal"

// FormatStyle selects how amounts of a currency are rendered.
type FormatStyle int

const (
	FormatPlain FormatStyle = iota
	FormatGrouped
)

type Currency struct {
	Code     string          `json:"code"`
	Symbol   string          `json:"symbol"`
	Rate     decimal.Decimal `json:"rate"`
	Flag     string          `json:"flag"`
	Country  string          `json:"country"`
	Decimals int32           `json:"decimals"`
	Style    FormatStyle     `json:"-"`
	Locale   string          `json:"-"`
}

type CommerceContext struct {
	Currency string `json:"currency"`
	Country  string `json:"country"`
}

type ShippingInfo struct {
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	DeliveryTime          string  `json:"deliveryTime"`
	CODAvailable          bool    `json:"codAvailable"`
}

type ShippingQuote struct {
	Cost          float64 `json:"cost"`
	IsFree        bool    `json:"isFree"`
	EstimatedDays int     `json:"estimatedDays"`
}

type PaymentMethodID string

const (
	PaymentCard       PaymentMethodID = "card"
	PaymentUPI        PaymentMethodID = "upi"
	PaymentNetBanking PaymentMethodID = "netbanking"
	PaymentPayPal     PaymentMethodID = "paypal"
	PaymentCOD        PaymentMethodID = "cod"
)

type PaymentMethod struct {
	ID          PaymentMethodID `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Countries   []string        `json:"countries"`
}

type DisplayPrice struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type PaymentRequest struct {
	Method   PaymentMethodID `json:"method"`
	Amount   float64         `json:"amount"`
	Currency string          `json:"currency"`
}

type PaymentStatus string

const (
	PaymentPending          PaymentStatus = "pending"
	PaymentAwaitingDelivery PaymentStatus = "awaiting_delivery"
)

// A PaymentIntent is the synthetic result of a payment initializer.
type PaymentIntent struct {
	Reference string          `json:"reference"`
	Method    PaymentMethodID `json:"method"`
	Amount    float64         `json:"amount"`
	Currency  string          `json:"currency"`
	Country   string          `json:"country"`
	Status    PaymentStatus   `json:"status"`
}
