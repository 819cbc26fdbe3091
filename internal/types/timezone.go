package types

import (
	"strings"
	"time"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
)

// timezoneAbbreviationMap maps common abbreviations entered by landlords to IANA identifiers
var timezoneAbbreviationMap = map[string]string{
	"CET":  "Europe/Warsaw",
	"CEST": "Europe/Warsaw",
	"EET":  "Europe/Athens",
	"WET":  "Europe/Lisbon",
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"UTC":  "UTC",
	"EST":  "America/New_York",
	"CST":  "America/Chicago",
	"MST":  "America/Denver",
	"PST":  "America/Los_Angeles",
}

// ResolveTimezone converts an abbreviation to an IANA identifier or returns the trimmed input
func ResolveTimezone(timezone string) string {
	timezone = strings.TrimSpace(timezone)
	if ianaName, exists := timezoneAbbreviationMap[strings.ToUpper(timezone)]; exists {
		return ianaName
	}
	return timezone
}

// ValidateTimezone checks that the (resolved) timezone can be loaded
func ValidateTimezone(timezone string) error {
	_, err := LoadTimezone(timezone)
	return err
}

// LoadTimezone resolves and loads a timezone. Empty input is rejected rather
// than silently meaning UTC.
func LoadTimezone(timezone string) (*time.Location, error) {
	resolved := ResolveTimezone(timezone)
	if resolved == "" {
		return nil, ierr.NewError("timezone is empty").
			WithHint("Provide an IANA timezone such as Europe/Warsaw").
			Mark(ierr.ErrValidation)
	}
	loc, err := time.LoadLocation(resolved)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Unknown timezone %q", timezone).
			WithReportableDetails(map[string]interface{}{"timezone": timezone}).
			Mark(ierr.ErrValidation)
	}
	return loc, nil
}
