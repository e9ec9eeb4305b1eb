package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Pagination is the navigation state of a directory page. HasNext is
// false when the pagination block is missing or unreadable, which ends
// the category loop without error.
type Pagination struct {
	CurrentPage int
	NextURL     string
	HasNext     bool
}

// ParsePagination reads the pagination nav of a directory page. Relative
// next links are resolved against baseURL.
func ParsePagination(doc *goquery.Document, baseURL string) Pagination {
	info := Pagination{CurrentPage: 1}

	nav := doc.Find("nav").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return strings.Contains(strings.ToLower(class), "pagination")
	}).First()
	if nav.Length() == 0 {
		return info
	}

	current := nav.Find("span").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		return strings.Contains(strings.ToLower(class), "current")
	}).First()
	if n, err := strconv.Atoi(strings.TrimSpace(current.Text())); err == nil {
		info.CurrentPage = n
	}

	next := nav.Find("a").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(sel.Text()), "next")
	}).First()
	if href, ok := next.Attr("href"); ok && href != "" {
		info.HasNext = true
		info.NextURL = ResolveURL(baseURL, href)
	}

	return info
}
