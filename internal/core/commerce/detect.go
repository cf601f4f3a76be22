package commerce

import (
	"strings"

	"golang.org/x/text/language"
)

// Signals are the locale hints available when a session starts.
type Signals struct {
	Locale   string // BCP 47 or POSIX, e.g. "en-IN", "en_GB.UTF-8"
	TimeZone string // IANA name, e.g. "Asia/Kolkata"
}

var countryCurrency = map[string]string{
	"US": "USD",
	"IN": "INR",
	"GB": "GBP",
	"CA": "CAD",
	"AU": "AUD",
	"DE": "EUR",
	"FR": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"NL": "EUR",
	"IE": "EUR",
	"PT": "EUR",
	"BE": "EUR",
	"AT": "EUR",
	"FI": "EUR",
}

type tzRule struct {
	markers  []string
	currency string
}

// Checked in order; city markers come before their continent.
var tzRules = []tzRule{
	{[]string{"Asia/Kolkata", "Asia/Calcutta"}, "INR"},
	{[]string{"Europe/London", "Europe/Belfast"}, "GBP"},
	{[]string{"Europe/"}, "EUR"},
	{[]string{"America/Toronto", "America/Vancouver", "America/Montreal", "America/Edmonton"}, "CAD"},
	{[]string{"America/"}, "USD"},
	{[]string{"Australia/"}, "AUD"},
}

type Detector struct {
	currencies CurrencyTable
}

func NewDetector(t CurrencyTable) Detector {
	return Detector{t}
}

// Detect derives a currency code: locale region, then time zone, then
// DefaultCurrency. The result is always a key of the table.
func (d Detector) Detect(s Signals) string {
	if region, ok := RegionFromLocale(s.Locale); ok {
		if code, ok := d.known(countryCurrency[region]); ok {
			return code
		}
	}
	if code, ok := d.fromTimeZone(s.TimeZone); ok {
		return code
	}
	return DefaultCurrency
}

// Country derives the shipping country: the locale region when present,
// otherwise the home country of the given currency.
func (d Detector) Country(s Signals, currency string) string {
	if region, ok := RegionFromLocale(s.Locale); ok {
		return region
	}
	return d.currencies.LookupOrDefault(currency).Country
}

func (d Detector) fromTimeZone(tz string) (string, bool) {
	if tz == "" {
		return "", false
	}
	for _, r := range tzRules {
		for _, m := range r.markers {
			if strings.Contains(tz, m) {
				return d.known(r.currency)
			}
		}
	}
	return "", false
}

func (d Detector) known(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	c, ok := d.currencies.Lookup(code)
	return c.Code, ok
}

// RegionFromLocale extracts an explicitly stated region from a locale tag.
// Inferred regions ("en" -> US) do not count.
func RegionFromLocale(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return "", false
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return "", false
	}
	region, conf := tag.Region()
	if conf != language.Exact || !region.IsCountry() {
		return "", false
	}
	return region.String(), true
}
