package commerce

import (
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// deliveryRule is keyed by currency. The USD threshold applies only to
// currencies whose home country has no countryRule.
type deliveryRule struct {
	thresholdUSD decimal.Decimal
	deliveryTime string
}

// countryRule is keyed by country; amounts are in the country's currency.
type countryRule struct {
	threshold          decimal.Decimal
	baseCost           decimal.Decimal
	durationMultiplier decimal.Decimal
}

func deliveryRules() map[string]deliveryRule {
	d := decimal.RequireFromString
	return map[string]deliveryRule{
		"USD": {d("75"), "5-7 business days"},
		"INR": {d("12"), "3-5 business days"},
		"EUR": {d("70"), "7-10 business days"},
		"GBP": {d("60"), "7-10 business days"},
		"CAD": {d("90"), "7-12 business days"},
		"AUD": {d("100"), "10-14 business days"},
	}
}

func countryRules() map[string]countryRule {
	d := decimal.RequireFromString
	return map[string]countryRule{
		"IN": {d("999"), d("99"), d("1")},
		"US": {d("75"), d("9.99"), d("1")},
		"GB": {d("60"), d("7.99"), d("1.5")},
		"DE": {d("70"), d("8.99"), d("1.5")},
		"FR": {d("70"), d("8.99"), d("1.5")},
		"CA": {d("90"), d("12.99"), d("1.5")},
		"AU": {d("100"), d("14.99"), d("2")},
	}
}

// ShippingInfo returns the delivery rules for a currency. The free shipping
// threshold is the one ShippingCost applies in the currency's home country;
// currencies without a country rule convert the USD threshold. Unknown codes
// use USD.
func (r Resolver) ShippingInfo(code string) domain.ShippingInfo {
	c := r.currencies.LookupOrDefault(code)
	rule, ok := r.deliveryRules[c.Code]
	if !ok {
		rule = r.deliveryRules[DefaultCurrency]
	}

	threshold := r.convert(rule.thresholdUSD, c)
	if home, ok := r.countryRules[c.Country]; ok {
		threshold = home.threshold
	}

	return domain.ShippingInfo{
		FreeShippingThreshold: threshold.InexactFloat64(),
		DeliveryTime:          rule.deliveryTime,
		CODAvailable:          r.CODEligible(c.Country),
	}
}

// ShippingCost quotes delivery for an order value in the country's
// currency. Unknown countries use the policy's default country. NaN and
// infinite order values count as zero.
func (r Resolver) ShippingCost(
	country string, orderValue float64, baseShippingDays int,
) domain.ShippingQuote {
	rule, ok := r.countryRules[strings.ToUpper(country)]
	if !ok {
		rule = r.countryRules[r.defaultCountry]
	}

	isFree := toDecimal(orderValue).GreaterThanOrEqual(rule.threshold)
	cost := rule.baseCost
	if isFree {
		cost = decimal.Zero
	}

	days := decimal.NewFromInt(int64(max(baseShippingDays, 0))).
		Mul(rule.durationMultiplier).
		Ceil()

	return domain.ShippingQuote{
		Cost:          cost.InexactFloat64(),
		IsFree:        isFree,
		EstimatedDays: int(days.IntPart()),
	}
}
