package transform

import "ecommerce-etl/internal/records"

// lineRow is one line item flattened out of its cart, remembering which
// cart (by position in the batch) it came from.
type lineRow struct {
	cart      int
	productID int64
	quantity  *float64
}

func flattenLineItems(carts []records.RawCart) []lineRow {
	var rows []lineRow
	for i, c := range carts {
		for _, item := range c.Products {
			if item.ProductID == nil {
				continue
			}
			rows = append(rows, lineRow{cart: i, productID: *item.ProductID, quantity: item.Quantity})
		}
	}
	return rows
}

// minimumOrderQuantities indexes the catalog by product id. If a product id
// appears more than once the strictest minimum wins.
func minimumOrderQuantities(catalog []records.RawProduct) map[int64]float64 {
	moq := make(map[int64]float64, len(catalog))
	for _, p := range catalog {
		if p.ID == nil || p.MinimumOrderQuantity == nil {
			continue
		}
		if current, ok := moq[*p.ID]; !ok || *p.MinimumOrderQuantity > current {
			moq[*p.ID] = *p.MinimumOrderQuantity
		}
	}
	return moq
}

// invalidCarts returns the positions of every cart holding at least one line
// item below its product's minimum order quantity. Line items whose product
// is not in the catalog never invalidate a cart.
func invalidCarts(carts []records.RawCart, moq map[int64]float64) map[int]struct{} {
	invalid := make(map[int]struct{})
	for _, row := range flattenLineItems(carts) {
		minimum, ok := moq[row.productID]
		if !ok || row.quantity == nil {
			continue
		}
		if *row.quantity < minimum {
			invalid[row.cart] = struct{}{}
		}
	}
	return invalid
}

// MinimumOrderQuantity rejects whole carts, not single line items, when any
// line item is ordered below the product's minimum order quantity. The
// catalog is indexed once for the whole batch.
func MinimumOrderQuantity(catalog []records.RawProduct) Step[records.RawCart] {
	moq := minimumOrderQuantities(catalog)
	return Step[records.RawCart]{
		Name: "validate minimum order quantity",
		Apply: func(carts []records.RawCart) ([]records.RawCart, []Verdict) {
			invalid := invalidCarts(carts, moq)
			kept := make([]records.RawCart, 0, len(carts)-len(invalid))
			var dropped []Verdict
			for i, c := range carts {
				if _, bad := invalid[i]; bad {
					dropped = append(dropped, Drop("below minimum order quantity"))
					continue
				}
				kept = append(kept, c)
			}
			return kept, dropped
		},
	}
}
