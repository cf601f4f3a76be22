package commerce

import (
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

const allCountries = "*"

func paymentMethods(codCountries []string) []domain.PaymentMethod {
	cod := make([]string, 0, len(codCountries))
	for _, c := range codCountries {
		cod = append(cod, strings.ToUpper(c))
	}
	slices.Sort(cod)
	cod = slices.Compact(cod)

	return []domain.PaymentMethod{
		{
			ID:          domain.PaymentCard,
			Name:        "Credit / Debit Card",
			Description: "Visa, Mastercard, American Express",
			Countries:   []string{allCountries},
		},
		{
			ID:          domain.PaymentUPI,
			Name:        "UPI",
			Description: "Pay with any UPI app",
			Countries:   []string{"IN"},
		},
		{
			ID:          domain.PaymentNetBanking,
			Name:        "Net Banking",
			Description: "All major Indian banks",
			Countries:   []string{"IN"},
		},
		{
			ID:          domain.PaymentPayPal,
			Name:        "PayPal",
			Description: "Pay with your PayPal balance or linked card",
			Countries:   []string{"US", "GB", "CA", "AU", "DE", "FR"},
		},
		{
			ID:          domain.PaymentCOD,
			Name:        "Cash on Delivery",
			Description: "Pay when your order arrives",
			Countries:   cod,
		},
	}
}
