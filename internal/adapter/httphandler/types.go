package httphandler

import "github.com/niksmo/storefront/internal/core/domain"

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type (
	CurrencyRequest struct {
		Code string `json:"code"`
	}

	CountryRequest struct {
		Country string `json:"country"`
	}
)

// StorefrontProduct is a catalog product with its price in the session
// currency.
type StorefrontProduct struct {
	domain.Product
	DisplayPrice domain.DisplayPrice `json:"displayPrice"`
}

type CommerceContext struct {
	domain.CommerceContext
	Symbol         string                 `json:"symbol"`
	Flag           string                 `json:"flag"`
	Shipping       domain.ShippingInfo    `json:"shipping"`
	PaymentMethods []domain.PaymentMethod `json:"paymentMethods"`
	CODEligible    bool                   `json:"codEligible"`
}

type ShippingQuote struct {
	domain.ShippingQuote
	Currency     string `json:"currency"`
	DeliveryTime string `json:"deliveryTime"`
}

type SyncResult struct {
	Synced int `json:"synced"`
}
