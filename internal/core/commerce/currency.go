// Package commerce resolves prices, shipping and payment eligibility from
// static rule tables. Every lookup degrades to a default record; nothing in
// this package returns an error.
package commerce

import (
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "USD"
	defaultSymbol   = "$"
)

// A CurrencyTable is an immutable set of supported currencies.
type CurrencyTable struct {
	byCode map[string]domain.Currency
	codes  []string
}

// NewCurrencyTable builds a table keeping the first entry for each code.
// DefaultCurrency is always present.
func NewCurrencyTable(cs ...domain.Currency) CurrencyTable {
	t := CurrencyTable{byCode: make(map[string]domain.Currency, len(cs))}
	for _, c := range cs {
		code := strings.ToUpper(c.Code)
		if _, ok := t.byCode[code]; ok {
			continue
		}
		c.Code = code
		t.byCode[code] = c
		t.codes = append(t.codes, code)
	}
	if _, ok := t.byCode[DefaultCurrency]; !ok {
		t.byCode[DefaultCurrency] = usd()
		t.codes = append(t.codes, DefaultCurrency)
	}
	return t
}

// DefaultCurrencies returns the storefront's currency table.
func DefaultCurrencies() CurrencyTable {
	return NewCurrencyTable(
		usd(),
		domain.Currency{
			Code:     "INR",
			Symbol:   "₹",
			Rate:     decimal.RequireFromString("83.12"),
			Flag:     "🇮🇳",
			Country:  "IN",
			Decimals: 2,
			Style:    domain.FormatGrouped,
			Locale:   "en-IN",
		},
		domain.Currency{
			Code:     "EUR",
			Symbol:   "€",
			Rate:     decimal.RequireFromString("0.92"),
			Flag:     "🇪🇺",
			Country:  "DE",
			Decimals: 2,
		},
		domain.Currency{
			Code:     "GBP",
			Symbol:   "£",
			Rate:     decimal.RequireFromString("0.79"),
			Flag:     "🇬🇧",
			Country:  "GB",
			Decimals: 2,
		},
		domain.Currency{
			Code:     "CAD",
			Symbol:   "C$",
			Rate:     decimal.RequireFromString("1.36"),
			Flag:     "🇨🇦",
			Country:  "CA",
			Decimals: 2,
		},
		domain.Currency{
			Code:     "AUD",
			Symbol:   "A$",
			Rate:     decimal.RequireFromString("1.52"),
			Flag:     "🇦🇺",
			Country:  "AU",
			Decimals: 2,
		},
	)
}

func usd() domain.Currency {
	return domain.Currency{
		Code:     DefaultCurrency,
		Symbol:   defaultSymbol,
		Rate:     decimal.NewFromInt(1),
		Flag:     "🇺🇸",
		Country:  "US",
		Decimals: 2,
	}
}

// Lookup finds a currency by its ISO code, case-insensitively.
func (t CurrencyTable) Lookup(code string) (domain.Currency, bool) {
	c, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// LookupOrDefault is Lookup falling back to DefaultCurrency.
func (t CurrencyTable) LookupOrDefault(code string) domain.Currency {
	if c, ok := t.Lookup(code); ok {
		return c
	}
	return t.byCode[DefaultCurrency]
}

// Codes returns the supported codes in table order.
func (t CurrencyTable) Codes() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}

// ByCountry returns the currency whose home country is the given one.
func (t CurrencyTable) ByCountry(country string) (domain.Currency, bool) {
	country = strings.ToUpper(country)
	for _, code := range t.codes {
		if c := t.byCode[code]; c.Country == country {
			return c, true
		}
	}
	return domain.Currency{}, false
}
