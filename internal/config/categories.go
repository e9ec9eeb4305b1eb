package config

import "strings"

// Category is one named partition of the directory with a fixed root URL.
type Category struct {
	// Name is the human-readable subcategory name, e.g. "Web Developers".
	Name string

	// URL is the category's listing root address.
	URL string
}

// DevelopmentCategories is the built-in table of Development directory
// subcategories. Order is stable: it is the crawl order when no target
// filter narrows the set.
var DevelopmentCategories = []Category{
	{Name: "Mobile Apps", URL: "https://clutch.co/directory/mobile-application-developers"},
	{Name: "iPhone Apps", URL: "https://clutch.co/directory/iphone-application-developers"},
	{Name: "Android Apps", URL: "https://clutch.co/directory/android-application-developers"},
	{Name: "Gaming Apps", URL: "https://clutch.co/directory/game-mobile-app-developers"},
	{Name: "Finance Apps", URL: "https://clutch.co/app-developers/financial"},
	{Name: "Software Developers", URL: "https://clutch.co/developers"},
	{Name: "Software Testing", URL: "https://clutch.co/developers/testing"},
	{Name: "Laravel", URL: "https://clutch.co/developers/laravel"},
	{Name: "Microsoft Sharepoint", URL: "https://clutch.co/it-services/microsoft-sharepoint"},
	{Name: "Webflow", URL: "https://clutch.co/developers/webflow"},
	{Name: "Web Developers", URL: "https://clutch.co/web-developers"},
	{Name: "Python & Django", URL: "https://clutch.co/developers/python-django"},
	{Name: "PHP", URL: "https://clutch.co/web-developers/php"},
	{Name: "Wordpress", URL: "https://clutch.co/developers/wordpress"},
	{Name: "Drupal", URL: "https://clutch.co/developers/drupal"},
	{Name: "Artificial Intelligence", URL: "https://clutch.co/developers/artificial-intelligence"},
	{Name: "Blockchain", URL: "https://clutch.co/developers/blockchain"},
	{Name: "AR/VR", URL: "https://clutch.co/developers/virtual-reality"},
	{Name: "IoT", URL: "https://clutch.co/developers/internet-of-things"},
	{Name: "React Native", URL: "https://clutch.co/developers/react-native"},
	{Name: "Flutter", URL: "https://clutch.co/developers/flutter"},
	{Name: "DOTNET", URL: "https://clutch.co/developers/dot-net"},
	{Name: "Ruby on Rails", URL: "https://clutch.co/developers/ruby-rails"},
	{Name: "JavaScript", URL: "https://clutch.co/web-developers/javascript"},
	{Name: "E-Commerce Developers", URL: "https://clutch.co/developers/ecommerce"},
	{Name: "Magento", URL: "https://clutch.co/developers/magento"},
	{Name: "Shopify", URL: "https://clutch.co/developers/shopify"},
	{Name: "BigCommerce", URL: "https://clutch.co/developers/bigcommerce"},
	{Name: "WooCommerce", URL: "https://clutch.co/developers/woocommerce"},
}

// Targets selects which categories a run crawls.
//
// Include wins over Skip: when Include is non-empty, only the named
// categories are crawled and Skip is ignored. Matching is case-insensitive
// on the category name.
type Targets struct {
	// Include lists category names to crawl. Empty means all.
	Include []string `yaml:"include"`

	// Skip lists category names to exclude when crawling all.
	Skip []string `yaml:"skip"`
}

// Filter applies the target selection to a category table, preserving the
// table's order. Unknown names in Include are ignored; the caller may warn
// about them via Unknown.
func (t Targets) Filter(categories []Category) []Category {
	if len(t.Include) > 0 {
		included := make([]Category, 0, len(t.Include))
		for _, c := range categories {
			if containsFold(t.Include, c.Name) {
				included = append(included, c)
			}
		}
		return included
	}

	kept := make([]Category, 0, len(categories))
	for _, c := range categories {
		if !containsFold(t.Skip, c.Name) {
			kept = append(kept, c)
		}
	}
	return kept
}

// Unknown returns the Include entries that match no category in the table.
func (t Targets) Unknown(categories []Category) []string {
	var unknown []string
	for _, name := range t.Include {
		found := false
		for _, c := range categories {
			if strings.EqualFold(c.Name, name) {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
