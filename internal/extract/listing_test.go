package extract

import (
	"reflect"
	"testing"
)

const directoryPage = `
<html><body>
<ul class="providers__list">
  <li itemtype="https://schema.org/Organization">
    <h3><a href="/profile/acme-digital">Acme Digital</a></h3>
    <span>Austin, TX</span>
    <span>4.8 rating, 120 reviews</span>
  </li>
  <li itemtype="https://schema.org/Organization">
    <h3><a href="https://clutch.co/profile/beta-labs">Beta Labs</a></h3>
    <span>Berlin, Germany and Warsaw, Poland</span>
  </li>
  <li itemtype="https://schema.org/Organization">
    <p>Listing without a name link</p>
  </li>
</ul>
</body></html>`

func TestListings(t *testing.T) {
	t.Parallel()

	doc, err := NewDocument([]byte(directoryPage))
	if err != nil {
		t.Fatalf("NewDocument() error: %v", err)
	}

	got := Listings(doc, "https://clutch.co")
	if len(got) != 2 {
		t.Fatalf("Listings() returned %d entries, want 2", len(got))
	}

	if got[0].Name != "Acme Digital" {
		t.Errorf("Name = %q, want Acme Digital", got[0].Name)
	}
	if got[0].URL != "https://clutch.co/profile/acme-digital" {
		t.Errorf("URL = %q, relative link not resolved", got[0].URL)
	}
	if want := []string{"Austin, TX"}; !reflect.DeepEqual(got[0].Locations, want) {
		t.Errorf("Locations = %v, want %v", got[0].Locations, want)
	}

	if got[1].Name != "Beta Labs" {
		t.Errorf("Name = %q, want Beta Labs", got[1].Name)
	}
	if got[1].URL != "https://clutch.co/profile/beta-labs" {
		t.Errorf("URL = %q, absolute link altered", got[1].URL)
	}
}

func TestListingsFallbackSelectors(t *testing.T) {
	t.Parallel()

	t.Run("provider class selector", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
		  <li class="provider-row"><h2><a href="/profile/gamma">Gamma Co</a></h2></li>
		</body></html>`

		doc, err := NewDocument([]byte(page))
		if err != nil {
			t.Fatal(err)
		}

		got := Listings(doc, "https://clutch.co")
		if len(got) != 1 || got[0].Name != "Gamma Co" {
			t.Errorf("Listings() = %+v, want one Gamma Co entry", got)
		}
	})

	t.Run("heuristic div fallback", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
		  <div><p>140 reviews, 4.9 rating</p><h4><a href="/profile/delta">Delta Works</a></h4></div>
		  <div><p>Unrelated sidebar text</p></div>
		</body></html>`

		doc, err := NewDocument([]byte(page))
		if err != nil {
			t.Fatal(err)
		}

		got := Listings(doc, "https://clutch.co")
		if len(got) != 1 || got[0].Name != "Delta Works" {
			t.Errorf("Listings() = %+v, want one Delta Works entry", got)
		}
	})
}

func TestListingsLocationTextNodeFallback(t *testing.T) {
	t.Parallel()

	// Neither strict pattern covers the state form, so the location must
	// come from the text-node scan, returned as the whole node.
	page := `<html><body>
	  <li class="provider-row">
	    <h2><a href="/profile/epsilon">Epsilon Group</a></h2>
	    <span>  Washington, D.C.  </span>
	  </li>
	</body></html>`

	doc, err := NewDocument([]byte(page))
	if err != nil {
		t.Fatal(err)
	}

	got := Listings(doc, "https://clutch.co")
	if len(got) != 1 {
		t.Fatalf("Listings() returned %d entries, want 1", len(got))
	}
	if want := []string{"Washington, D.C."}; !reflect.DeepEqual(got[0].Locations, want) {
		t.Errorf("Locations = %v, want %v", got[0].Locations, want)
	}
}

func TestSplitLocations(t *testing.T) {
	t.Parallel()

	got := splitLocations("Berlin, Germany; Warsaw, Poland and London, UK")
	want := []string{"Berlin, Germany", "Warsaw, Poland", "London, UK"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitLocations() = %v, want %v", got, want)
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{name: "relative path", base: "https://clutch.co", href: "/profile/acme", want: "https://clutch.co/profile/acme"},
		{name: "absolute href wins", base: "https://clutch.co", href: "https://other.example/x", want: "https://other.example/x"},
		{name: "empty href", base: "https://clutch.co", href: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolveURL(tt.base, tt.href); got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}
