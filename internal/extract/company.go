package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clutchscan/clutchscan/internal/textutil"
)

// maxProfileLocations caps how many address blocks a profile contributes.
const maxProfileLocations = 3

// Profile is the company information read from a profile page.
type Profile struct {
	Name      string
	Locations []string
}

// CompanyProfile extracts the company name and up to three office
// locations from a profile page. Missing pieces are left empty.
func CompanyProfile(doc *goquery.Document) Profile {
	var profile Profile

	heading := doc.Find("h1").First()
	if heading.Length() == 0 {
		heading = doc.Find("h2").First()
	}
	profile.Name = textutil.CleanText(heading.Text())

	addresses := doc.Find(".detailed-address.location_element")
	addresses.Slice(0, min(addresses.Length(), maxProfileLocations)).
		Each(func(_ int, sel *goquery.Selection) {
			if loc := parseAddressBlock(sel); loc != "" && !contains(profile.Locations, loc) {
				profile.Locations = append(profile.Locations, loc)
			}
		})

	return profile
}

// parseAddressBlock reads the spans of one address block and keeps the
// city and, when present, the two-letter state code. Street lines, suite
// numbers, and bare postal codes are skipped.
func parseAddressBlock(sel *goquery.Selection) string {
	var city, state string

	sel.Find("span").Each(func(_ int, span *goquery.Selection) {
		text := textutil.CleanText(span.Text())
		if len(text) <= 1 {
			return
		}

		switch {
		case city == "" && !strings.Contains(text, ",") && !isCountryOrState(text) && !looksLikeStreet(text):
			city = text
		case state == "" && strings.Contains(text, ", "):
			parts := strings.SplitN(text, ", ", 2)
			if len(parts) == 2 && len(parts[1]) == 2 {
				if city == "" {
					city = parts[0]
				}
				state = parts[1]
			}
		}
	})

	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return ""
	}
}

// isCountryOrState filters spans that carry a country name or a bare
// state code where the heuristic expects a city.
func isCountryOrState(s string) bool {
	if strings.Contains(s, "United States") {
		return true
	}
	return len(s) == 2 && s == strings.ToUpper(s)
}

// looksLikeStreet reports whether a span holds street-address noise
// rather than a city name. Anything carrying a digit is a street line,
// suite number, or postal code.
func looksLikeStreet(s string) bool {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "suite") || strings.Contains(lower, "blvd") {
		return true
	}
	return strings.ContainsAny(s, "0123456789")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
