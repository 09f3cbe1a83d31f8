package orders

import "testing"

func TestByNameResolvesAllFamilies(t *testing.T) {
	cases := []struct {
		name       string
		resource   string
		productKey string
	}{
		{"purchase_order", "/api/suppliers/buy_orders/", "product"},
		{"quote", "/api/sales/quotes/", "product"},
		{"sale", "/api/sales/sales/", "product_id"},
	}

	for _, tc := range cases {
		form, ok := ByName(tc.name)
		if !ok {
			t.Fatalf("form %q not found", tc.name)
		}
		if form.Name != tc.name {
			t.Errorf("form name = %q, want %q", form.Name, tc.name)
		}
		if form.Resource != tc.resource {
			t.Errorf("%s resource = %q, want %q", tc.name, form.Resource, tc.resource)
		}
		if form.LineProductKey != tc.productKey {
			t.Errorf("%s product key = %q, want %q", tc.name, form.LineProductKey, tc.productKey)
		}
		if !form.RequirePositivePrice {
			t.Errorf("%s must require a positive unit price", tc.name)
		}
		if len(form.Header) == 0 {
			t.Errorf("%s has no header fields", tc.name)
		}
	}
}

func TestByNameRejectsUnknownForm(t *testing.T) {
	if _, ok := ByName("invoice"); ok {
		t.Error("unknown form name must not resolve")
	}
}

func TestSaleHeaderCarriesDocumentAndPaymentFields(t *testing.T) {
	form, _ := ByName("sale")

	fields := map[string][]string{}
	for _, hf := range form.Header {
		if !hf.Required {
			t.Errorf("sale header field %q should be required", hf.Name)
		}
		fields[hf.Name] = hf.Enum
	}

	if got := fields["status"]; len(got) != 3 {
		t.Errorf("sale status enum = %v", got)
	}
	if got := fields["document_type"]; len(got) != 2 {
		t.Errorf("document_type enum = %v", got)
	}
	if got := fields["payment_method"]; len(got) != 5 {
		t.Errorf("payment_method enum = %v", got)
	}
	if _, ok := fields["client_id"]; !ok {
		t.Error("sale header must carry client_id")
	}
}
