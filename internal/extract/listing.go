package extract

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/clutchscan/clutchscan/internal/textutil"
)

// Listing is one company entry on a directory page. URL is empty when the
// entry carried no profile link; such entries still produce a minimal
// record from the listing alone.
type Listing struct {
	Name      string
	URL       string
	Locations []string
}

// listingSelectors is the ordered chain for locating company entries,
// most specific first.
var listingSelectors = []string{
	`li[itemtype="https://schema.org/Organization"]`,
	`.providers__list li`,
	`li[class*="provider"]`,
	`div[class*="provider"]`,
	`li[itemscope]`,
	`.company-tile`,
	`.provider-card`,
}

// nameSelectors is the ordered chain for the company name link inside an
// entry.
var nameSelectors = []string{
	"h2 a", "h3 a", "h4 a",
	".company-name a", ".provider-name a",
	`a[href*="/profile/"]`,
}

// companyIndicators are words whose presence marks a div as a probable
// company entry when no structural selector matched.
var companyIndicators = []string{
	"reviews", "rating", "stars", "location", "employees", "founded", "services",
}

var (
	// cityStateRegex matches "City, ST" forms; cityCountryRegex matches
	// "City, Country" forms. looseLocationRegex is the last-resort shape
	// for the text-node fallback: a capitalized word, a comma, and the
	// start of another capitalized word.
	cityStateRegex     = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]{2}`)
	cityCountryRegex   = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z][a-z]+`)
	looseLocationRegex = regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]`)

	// locationSplitRegex separates multi-location strings on semicolons,
	// pipes, and the word "and".
	locationSplitRegex = regexp.MustCompile(`[;|]|\sand\s`)
)

// NewDocument parses a fetched HTML body.
func NewDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// Listings extracts every company entry from a directory page. Entries
// with no extractable name are dropped; relative profile links are
// resolved against baseURL.
func Listings(doc *goquery.Document, baseURL string) []Listing {
	elements := findCompanyElements(doc)

	var listings []Listing
	elements.Each(func(_ int, sel *goquery.Selection) {
		listing, ok := extractListing(sel, baseURL)
		if !ok {
			return
		}
		listings = append(listings, listing)
	})

	return listings
}

// findCompanyElements tries each structural selector in order, then falls
// back to scoring every div for company-like content.
func findCompanyElements(doc *goquery.Document) *goquery.Selection {
	for _, selector := range listingSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel
		}
	}

	return doc.Find("div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return looksLikeCompany(sel)
	})
}

// looksLikeCompany reports whether a div reads like a company entry: it
// either links to a profile or mentions at least two directory-entry
// vocabulary words.
func looksLikeCompany(sel *goquery.Selection) bool {
	if sel.Find(`a[href*="/profile/"]`).Length() > 0 {
		return true
	}

	text := strings.ToLower(sel.Text())
	count := 0
	for _, indicator := range companyIndicators {
		if strings.Contains(text, indicator) {
			count++
		}
	}
	return count >= 2
}

// extractListing reads one entry. The name is required; the profile URL
// and locations are best effort.
func extractListing(sel *goquery.Selection, baseURL string) (Listing, bool) {
	var listing Listing

	for _, selector := range nameSelectors {
		link := sel.Find(selector).First()
		if link.Length() == 0 {
			continue
		}
		listing.Name = textutil.CleanText(link.Text())
		if href, ok := link.Attr("href"); ok {
			listing.URL = ResolveURL(baseURL, href)
		}
		break
	}

	if listing.Name == "" {
		return Listing{}, false
	}

	if loc := findLocationText(sel); loc != "" {
		listing.Locations = splitLocations(loc)
	}

	return listing, true
}

// findLocationText scans the entry text for a "City, ST" or
// "City, Country" shape. When neither pattern matches it falls back to
// the first text node that merely looks location-like and returns that
// node whole, which keeps forms such as "Washington, D.C." the strict
// patterns cannot describe.
func findLocationText(sel *goquery.Selection) string {
	text := sel.Text()
	if m := cityStateRegex.FindString(text); m != "" {
		return m
	}
	if m := cityCountryRegex.FindString(text); m != "" {
		return m
	}

	for _, root := range sel.Nodes {
		if s := findLocationNode(root); s != "" {
			return s
		}
	}
	return ""
}

// findLocationNode walks n's subtree in document order and returns the
// first matching text node, stripped.
func findLocationNode(n *html.Node) string {
	if n.Type == html.TextNode {
		if looseLocationRegex.MatchString(n.Data) {
			return strings.TrimSpace(n.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := findLocationNode(c); s != "" {
			return s
		}
	}
	return ""
}

// splitLocations breaks a multi-location string into cleaned parts.
func splitLocations(s string) []string {
	var locations []string
	for _, part := range locationSplitRegex.Split(s, -1) {
		if cleaned := textutil.CleanText(part); cleaned != "" {
			locations = append(locations, cleaned)
		}
	}
	return locations
}

// ResolveURL resolves href against base. Invalid inputs return href
// unchanged so a malformed link degrades rather than disappears.
func ResolveURL(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
