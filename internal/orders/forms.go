// Package orders holds the thin per-domain adapters around the drafting
// core: form specs for the three document families and the HTTP client
// that submits validated payloads to the dashboard backend.
package orders

import "bazar/internal/draft"

// PurchaseOrder is the drafting spec for supplier purchase orders.
func PurchaseOrder() draft.FormSpec {
	return draft.FormSpec{
		Name:     "purchase_order",
		Resource: "/api/suppliers/buy_orders/",
		Header: []draft.HeaderField{
			{Name: "supplier", Required: true},
			{Name: "status", Required: true, Enum: []string{"RE", "PE", "AP"}},
		},
		LineProductKey:       "product",
		RequirePositivePrice: true,
	}
}

// Quote is the drafting spec for client quotes.
func Quote() draft.FormSpec {
	return draft.FormSpec{
		Name:     "quote",
		Resource: "/api/sales/quotes/",
		Header: []draft.HeaderField{
			{Name: "client", Required: true},
			{Name: "status", Required: true, Enum: []string{"RE", "PE", "AP"}},
		},
		LineProductKey:       "product",
		RequirePositivePrice: true,
	}
}

// Sale is the drafting spec for direct sales. Sales carry document and
// payment metadata the other families don't, and the backend expects the
// product key as product_id.
func Sale() draft.FormSpec {
	return draft.FormSpec{
		Name:     "sale",
		Resource: "/api/sales/sales/",
		Header: []draft.HeaderField{
			{Name: "client_id", Required: true},
			{Name: "status", Required: true, Enum: []string{"PA", "PE", "CA"}},
			{Name: "document_type", Required: true, Enum: []string{"BOL", "FAC"}},
			{Name: "payment_method", Required: true, Enum: []string{"EF", "TC", "TD", "TR", "OT"}},
		},
		LineProductKey:       "product_id",
		RequirePositivePrice: true,
	}
}

// ByName resolves a form spec from its wire name.
func ByName(name string) (draft.FormSpec, bool) {
	switch name {
	case "purchase_order":
		return PurchaseOrder(), true
	case "quote":
		return Quote(), true
	case "sale":
		return Sale(), true
	}
	return draft.FormSpec{}, false
}
