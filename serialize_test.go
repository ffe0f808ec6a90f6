package ppview

import "testing"

func TestSerializeRoundTrip(t *testing.T) {
	state := pricedState()
	leaf := &TaxonomyNode{ID: "n-leaf", Name: "Security Assignment", Data: &Assignment{SecurityID: "sec-acme", Weight: 100}}
	tech := &TaxonomyNode{ID: "n-tech", Name: "Technology", Color: "#89afd7", Children: []*TaxonomyNode{leaf}}
	root := &TaxonomyNode{ID: "n-root", Name: "Sectors", Children: []*TaxonomyNode{tech}}
	state.Taxonomies = []*TaxonomyNode{root}
	state.SetCategories(map[string][]*TaxonomyNode{"DE000ACME007": {tech}})

	data, err := Serialize(state)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.BaseCurrency != "EUR" {
		t.Errorf("BaseCurrency = %q want EUR", got.BaseCurrency)
	}

	sec := got.Security("sec-acme")
	if sec == nil {
		t.Fatal("security sec-acme lost in round trip")
	}
	if sec.Name != "ACME Corp" || sec.ISIN != "DE000ACME007" {
		t.Errorf("security = %q/%q want ACME Corp/DE000ACME007", sec.Name, sec.ISIN)
	}
	if price, ok := sec.Prices.ValueAsOf(day(2024, 1, 3)); !ok || !approx(price, 192.50) {
		t.Errorf("price as of Jan 3 = %v,%v want 192.50,true", price, ok)
	}

	if len(got.Accounts) != 1 || len(got.Accounts[0].Transactions) != 1 {
		t.Fatalf("accounts = %+v want 1 account with 1 transaction", got.Accounts)
	}
	tx := got.Accounts[0].Transactions[0]
	if tx.Type != Deposit || !approx(tx.Amount, 2000) || tx.Date != day(2024, 1, 2) {
		t.Errorf("deposit = %+v", tx)
	}

	if len(got.Portfolios) != 1 || len(got.Portfolios[0].Transactions) != 2 {
		t.Fatalf("portfolios = %+v want 1 portfolio with 2 transactions", got.Portfolios)
	}

	// The rebuilt category index must point into the rebuilt tree, not at
	// detached copies.
	cats := got.CategoriesFor("DE000ACME007")
	if len(cats) != 1 || cats[0].Name != "Technology" {
		t.Fatalf("CategoriesFor = %+v want [Technology]", cats)
	}
	if len(got.Taxonomies) != 1 || cats[0] != got.Taxonomies[0].Children[0] {
		t.Error("category node is not the node from the deserialized tree")
	}

	// The round trip must preserve the numbers the engine produces.
	want := Valuate(state, day(2024, 1, 4))
	have := Valuate(got, day(2024, 1, 4))
	if !approx(want.TotalValue, have.TotalValue) {
		t.Errorf("TotalValue after round trip = %v want %v", have.TotalValue, want.TotalValue)
	}
}

func TestDeserializeGarbage(t *testing.T) {
	if _, err := Deserialize([]byte("not msgpack at all")); err == nil {
		t.Error("Deserialize accepted garbage input")
	}
}
