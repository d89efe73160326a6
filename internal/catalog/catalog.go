// Package catalog holds the static list of purchasable course packages.
// The catalog is an immutable in-process table loaded at startup; it is not
// persisted, and adding a package is a code change.
package catalog

// Package is a purchasable subscription package.
type Package struct {
	ID          string
	Name        string
	Price       int
	OldPrice    int // strikethrough price; 0 means none
	Description []string
}

var packages = []Package{
	{
		ID:       "basic",
		Name:     "Starter Package",
		Price:    65,
		OldPrice: 90,
		Description: []string{
			"Online tutorials",
			"Ticket purchasing",
			"Booking walkthroughs",
			"Insurance basics",
			"Accommodation booking",
		},
	},
	{
		ID:       "plus",
		Name:     "Plus Package",
		Price:    107,
		OldPrice: 190,
		Description: []string{
			"2-3 lectures per week",
			"Access to the private community group",
			"Direct contact with mentors",
		},
	},
	{
		ID:    "premium",
		Name:  "Premium Package",
		Price: 400,
		Description: []string{
			"Two private lectures per week",
			"Individual approach for everyone",
			"Progress monitoring",
			"Ongoing support",
		},
	},
}

// All returns the packages in display order. The returned slice is a copy;
// the underlying catalog is never mutated.
func All() []Package {
	out := make([]Package, len(packages))
	copy(out, packages)
	return out
}

// ByID returns the package with the given id.
func ByID(id string) (Package, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// Exists reports whether a package with the given id is in the catalog.
func Exists(id string) bool {
	_, ok := ByID(id)
	return ok
}
