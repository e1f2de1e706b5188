package sanitizer

import (
	"strings"

	"golfmaster/pkg/locale"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone returns phone in E.164 form, or "" when it is not a valid
// number. Numbers without a country code are tried against each region in
// order; with no regions given the default region is used.
func NormalizePhone(phone string, regions ...string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	if len(regions) == 0 {
		regions = []string{locale.DefaultRegion}
	}

	for _, region := range regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}
