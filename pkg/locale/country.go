package locale

import "strings"

const DefaultRegion = "ES"

type Country struct {
	Code          string   // ISO 3166-1 alpha-2
	Name          string
	TimeZones     []string // IANA identifiers that map to this country
	DefaultLocale string
}

var Countries = map[string]Country{
	"ES": {
		Code:          "ES",
		Name:          "Spain",
		TimeZones:     []string{"Europe/Madrid", "Atlantic/Canary", "Africa/Ceuta"},
		DefaultLocale: "es-ES",
	},
	"PT": {
		Code:          "PT",
		Name:          "Portugal",
		TimeZones:     []string{"Europe/Lisbon", "Atlantic/Madeira", "Atlantic/Azores", "Portugal"},
		DefaultLocale: "pt-PT",
	},
	"GB": {
		Code:          "GB",
		Name:          "United Kingdom",
		TimeZones:     []string{"Europe/London", "GB"},
		DefaultLocale: "en-GB",
	},
	"US": {
		Code:          "US",
		Name:          "United States",
		TimeZones:     []string{"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles", "US/Eastern", "US/Pacific"},
		DefaultLocale: "en-US",
	},
	"MX": {
		Code:          "MX",
		Name:          "Mexico",
		TimeZones:     []string{"America/Mexico_City", "America/Cancun", "America/Tijuana"},
		DefaultLocale: "es-MX",
	},
}

// DetectRegion maps the club's time zone to the region used when parsing
// phone numbers written without a country code.
func DetectRegion(tz string) string {
	tz = strings.TrimSpace(tz)
	for code, country := range Countries {
		for _, z := range country.TimeZones {
			if strings.EqualFold(tz, z) {
				return code
			}
		}
	}
	return DefaultRegion
}
