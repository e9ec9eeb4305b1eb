package extract

import (
	"reflect"
	"testing"
)

func TestCompanyProfile(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<h1>Acme Digital Agency</h1>
	<div class="detailed-address location_element">
	  <span>100 Congress Ave</span>
	  <span>Suite 200</span>
	  <span>Austin</span>
	  <span>Austin, TX</span>
	</div>
	<div class="detailed-address location_element">
	  <span>Denver</span>
	</div>
	<div class="detailed-address location_element">
	  <span>Austin</span>
	  <span>Austin, TX</span>
	</div>
	<div class="detailed-address location_element">
	  <span>Boston</span>
	</div>
	</body></html>`

	doc, err := NewDocument([]byte(page))
	if err != nil {
		t.Fatalf("NewDocument() error: %v", err)
	}

	got := CompanyProfile(doc)
	if got.Name != "Acme Digital Agency" {
		t.Errorf("Name = %q, want Acme Digital Agency", got.Name)
	}

	// Street lines are skipped, duplicates collapse, and only the first
	// three address blocks count, so Boston never appears.
	want := []string{"Austin, TX", "Denver"}
	if !reflect.DeepEqual(got.Locations, want) {
		t.Errorf("Locations = %v, want %v", got.Locations, want)
	}
}

func TestCompanyProfileHeadingFallback(t *testing.T) {
	t.Parallel()

	page := `<html><body><h2>Beta Labs</h2></body></html>`
	doc, err := NewDocument([]byte(page))
	if err != nil {
		t.Fatal(err)
	}

	got := CompanyProfile(doc)
	if got.Name != "Beta Labs" {
		t.Errorf("Name = %q, want Beta Labs from the h2 fallback", got.Name)
	}
	if len(got.Locations) != 0 {
		t.Errorf("Locations = %v, want none", got.Locations)
	}
}

func TestCompanyProfileEmptyPage(t *testing.T) {
	t.Parallel()

	doc, err := NewDocument([]byte("<html><body><p>nothing here</p></body></html>"))
	if err != nil {
		t.Fatal(err)
	}

	got := CompanyProfile(doc)
	if got.Name != "" {
		t.Errorf("Name = %q, want empty", got.Name)
	}
}
