// Package main provides the entry point for the clutchscan CLI.
//
// clutchscan crawls the Clutch.co Development directory, collects company
// profiles and client reviews, and exports the results in several formats.
//
// Usage:
//
//	clutchscan scrape
//	clutchscan scrape --categories "Web Developers,Mobile Apps"
//	clutchscan categories
//
// See --help for all available options.
package main

// main is the entry point for clutchscan.
func main() {
	Execute()
}
