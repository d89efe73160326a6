package catalog

import "testing"

func TestAllReturnsThreePackages(t *testing.T) {
	all := All()
	if len(all) != 3 {
		t.Fatalf("len(All()) = %d, want 3", len(all))
	}

	wantIDs := []string{"basic", "plus", "premium"}
	for i, id := range wantIDs {
		if all[i].ID != id {
			t.Errorf("All()[%d].ID = %q, want %q", i, all[i].ID, id)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"

	if All()[0].Name == "mutated" {
		t.Error("mutating the returned slice changed the catalog")
	}
}

func TestByID(t *testing.T) {
	p, ok := ByID("plus")
	if !ok {
		t.Fatal("ByID(plus) not found")
	}
	if p.Price != 107 || p.OldPrice != 190 {
		t.Errorf("plus pricing = %d/%d, want 107/190", p.Price, p.OldPrice)
	}

	if _, ok := ByID("gold"); ok {
		t.Error("ByID(gold) found, want missing")
	}
}

func TestPremiumHasNoOldPrice(t *testing.T) {
	p, ok := ByID("premium")
	if !ok {
		t.Fatal("ByID(premium) not found")
	}
	if p.OldPrice != 0 {
		t.Errorf("premium OldPrice = %d, want 0", p.OldPrice)
	}
	if p.Price != 400 {
		t.Errorf("premium Price = %d, want 400", p.Price)
	}
}

func TestExists(t *testing.T) {
	for _, id := range []string{"basic", "plus", "premium"} {
		if !Exists(id) {
			t.Errorf("Exists(%q) = false", id)
		}
	}
	if Exists("") || Exists("Basic") {
		t.Error("Exists matched a non-catalog id")
	}
}
