package commerce

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultCountry = "US"

// Policy holds the configurable business rules.
type Policy struct {
	// CODCountries is the single source for cash-on-delivery eligibility,
	// both for CODEligible and for the payment-method table.
	CODCountries []string

	// DefaultCountry is the shipping record used for unknown countries.
	DefaultCountry string
}

func DefaultPolicy() Policy {
	return Policy{
		CODCountries:   []string{"IN"},
		DefaultCountry: defaultCountry,
	}
}

// A Resolver computes display prices and checkout eligibility. It holds
// only immutable tables and is safe for concurrent use.
type Resolver struct {
	currencies     CurrencyTable
	printers       map[string]*message.Printer
	deliveryRules  map[string]deliveryRule
	countryRules   map[string]countryRule
	paymentMethods []domain.PaymentMethod
	codCountries   map[string]struct{}
	defaultCountry string
}

func NewResolver(t CurrencyTable, p Policy) Resolver {
	r := Resolver{
		currencies:    t,
		printers:      make(map[string]*message.Printer),
		deliveryRules: deliveryRules(),
		countryRules:  countryRules(),
		codCountries:  make(map[string]struct{}, len(p.CODCountries)),
	}

	for _, code := range t.Codes() {
		c, _ := t.Lookup(code)
		if c.Style != domain.FormatGrouped {
			continue
		}
		tag, err := language.Parse(c.Locale)
		if err != nil {
			tag = language.English
		}
		r.printers[code] = message.NewPrinter(tag)
	}

	for _, country := range p.CODCountries {
		r.codCountries[strings.ToUpper(country)] = struct{}{}
	}

	r.defaultCountry = strings.ToUpper(p.DefaultCountry)
	if _, ok := r.countryRules[r.defaultCountry]; !ok {
		r.defaultCountry = defaultCountry
	}

	r.paymentMethods = paymentMethods(p.CODCountries)
	return r
}

// Currencies returns the table the resolver was built with.
func (r Resolver) Currencies() CurrencyTable {
	return r.currencies
}

// Convert converts a USD amount into the given currency, rounded by the
// currency's decimals. Unknown codes return the amount unchanged.
// NaN and infinite amounts convert to zero.
func (r Resolver) Convert(usd float64, code string) float64 {
	c, ok := r.currencies.Lookup(code)
	if !ok {
		return usd
	}
	return r.convert(toDecimal(usd), c).InexactFloat64()
}

// toDecimal maps NaN and infinities to zero; decimal.NewFromFloat panics
// on them.
func toDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func (r Resolver) convert(usd decimal.Decimal, c domain.Currency) decimal.Decimal {
	return usd.Mul(c.Rate).Round(c.Decimals)
}

// Format renders an amount already expressed in the given currency.
// Unknown codes render with the default symbol and two decimals. NaN and
// infinite amounts render as zero.
func (r Resolver) Format(amount float64, code string) string {
	c, ok := r.currencies.Lookup(code)
	if !ok {
		return defaultSymbol + toDecimal(amount).StringFixed(2)
	}

	d := toDecimal(amount).Round(c.Decimals)
	if p, ok := r.printers[c.Code]; ok {
		return c.Symbol + p.Sprintf(fmt.Sprintf("%%.%df", c.Decimals), d.InexactFloat64())
	}
	return c.Symbol + d.StringFixed(c.Decimals)
}

// Price converts and formats a USD amount in one step.
func (r Resolver) Price(usd float64, code string) domain.DisplayPrice {
	c := r.currencies.LookupOrDefault(code)
	amount := r.convert(toDecimal(usd), c).InexactFloat64()
	return domain.DisplayPrice{
		Amount:    amount,
		Currency:  c.Code,
		Formatted: r.Format(amount, c.Code),
	}
}

// CODEligible reports whether cash on delivery is offered in the country.
func (r Resolver) CODEligible(country string) bool {
	_, ok := r.codCountries[strings.ToUpper(country)]
	return ok
}

// PaymentMethods returns the methods offered in the country, in table order.
func (r Resolver) PaymentMethods(country string) []domain.PaymentMethod {
	country = strings.ToUpper(country)
	var out []domain.PaymentMethod
	for _, m := range r.paymentMethods {
		if slices.Contains(m.Countries, allCountries) || slices.Contains(m.Countries, country) {
			m.Countries = slices.Clone(m.Countries)
			out = append(out, m)
		}
	}
	return out
}
