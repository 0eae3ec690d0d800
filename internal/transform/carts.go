package transform

import (
	"math"

	"ecommerce-etl/internal/records"
)

var cartRequired = []string{
	"userId", "products", "total", "discountedTotal", "totalProducts", "totalQuantity", "transaction_date",
}

func cartPipeline(catalog []records.RawProduct) Pipeline[records.RawCart] {
	return Pipeline[records.RawCart]{
		Entity:   "carts",
		Required: cartRequired,
		Steps: []Step[records.RawCart]{
			// Runs first: it needs the line items as they came from the store.
			MinimumOrderQuantity(catalog),
			Each("drop missing values", func(c *records.RawCart) Verdict {
				switch {
				case c.UserID == nil:
					return Drop("missing userId")
				case c.Products == nil:
					return Drop("missing products")
				case c.Total == nil:
					return Drop("missing total")
				case c.DiscountedTotal == nil:
					return Drop("missing discountedTotal")
				}
				return Keep
			}),
			Each("drop inconsistent values", func(c *records.RawCart) Verdict {
				switch {
				case !atLeast(c.Total, 0):
					return Drop("negative total")
				case !atLeast(c.TotalProducts, 0):
					return Drop("invalid totalProducts")
				case !atLeast(c.TotalQuantity, 0):
					return Drop("invalid totalQuantity")
				}
				for _, item := range c.Products {
					if !wholeQuantity(item.Quantity) {
						return Drop("invalid line item quantity")
					}
				}
				return Keep
			}),
			Each("transform transaction date", func(c *records.RawCart) Verdict {
				date, ok := ParseTransactionDate(c.TransactionDate)
				if !ok {
					return Drop("invalid transaction date")
				}
				c.Date = date
				return Keep
			}),
		},
	}
}

// CleanCarts validates carts against the product catalog and cleans them.
// catalog is the full product collection as read from the store.
func CleanCarts(batch *records.Batch[records.RawCart], catalog []records.RawProduct, obs Observer) ([]records.Cart, error) {
	rows, err := cartPipeline(catalog).Run(batch, obs)
	if err != nil {
		return nil, err
	}
	carts := make([]records.Cart, 0, len(rows))
	for _, c := range rows {
		items := make([]records.LineItem, 0, len(c.Products))
		for _, item := range c.Products {
			items = append(items, records.LineItem{
				ProductID: item.ProductID,
				Quantity:  int64(*item.Quantity),
				UnitPrice: deref(item.UnitPrice),
			})
		}
		carts = append(carts, records.Cart{
			ID:              deref(c.ID),
			UserID:          *c.UserID,
			Products:        items,
			Total:           *c.Total,
			DiscountedTotal: *c.DiscountedTotal,
			TotalProducts:   *c.TotalProducts,
			TotalQuantity:   *c.TotalQuantity,
			TransactionDate: c.Date,
		})
	}
	return carts, nil
}

// wholeQuantity accepts a present, non-negative, integral quantity; fact
// rows store quantities as integers.
func wholeQuantity(q *float64) bool {
	return atLeast(q, 0) && !math.IsInf(*q, 0) && *q == math.Trunc(*q)
}
