// Package projector maps cleaned users, products and carts onto the star
// schema. Surrogate time keys are never guessed here; they come from the
// sink after dim_time has been written.
package projector

import (
	"sort"

	"ecommerce-etl/internal/records"
)

// Observer is told how many rows could not be matched in a join.
type Observer interface {
	Unresolved(what string, count int)
}

type NopObserver struct{}

func (NopObserver) Unresolved(string, int) {}

func DimUsers(users []records.User) []records.DimUser {
	rows := make([]records.DimUser, 0, len(users))
	for _, u := range users {
		rows = append(rows, records.DimUser{
			UserID:    u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Age:       u.Age,
			Gender:    u.Gender,
			City:      u.City,
			State:     u.State,
			Country:   u.Country,
		})
	}
	return rows
}

func DimProducts(products []records.Product) []records.DimProduct {
	rows := make([]records.DimProduct, 0, len(products))
	for _, p := range products {
		rows = append(rows, records.DimProduct{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Rating:    p.Rating,
			Brand:     p.Brand,
		})
	}
	return rows
}

// DimTimes returns one row per distinct calendar date, oldest first.
func DimTimes(carts []records.Cart) []records.DimTime {
	seen := make(map[string]struct{})
	var rows []records.DimTime
	for _, c := range carts {
		key := records.DateKey(c.TransactionDate)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, records.NewDimTime(c.TransactionDate))
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// KeyedCart is a cart with the dimension keys it resolved to. A nil key
// means the join found no match.
type KeyedCart struct {
	Cart   records.Cart
	UserID *int64
	TimeID *int64
}

// AttachUsers left-joins carts to users on cart.UserID = user.ID. Every
// cart is kept; carts whose user was cleaned away carry a nil UserID.
func AttachUsers(carts []records.Cart, users []records.User, obs Observer) []KeyedCart {
	known := make(map[int64]struct{}, len(users))
	for _, u := range users {
		known[u.ID] = struct{}{}
	}

	rows := make([]KeyedCart, 0, len(carts))
	missing := 0
	for _, c := range carts {
		row := KeyedCart{Cart: c}
		if _, ok := known[c.UserID]; ok {
			id := c.UserID
			row.UserID = &id
		} else {
			missing++
		}
		rows = append(rows, row)
	}
	if missing > 0 && obs != nil {
		obs.Unresolved("cart user", missing)
	}
	return rows
}

// AttachTimes left-joins carts to the time keys read back from the sink on
// the calendar date.
func AttachTimes(rows []KeyedCart, keys []records.TimeKey, obs Observer) []KeyedCart {
	byDate := make(map[string]int64, len(keys))
	for _, k := range keys {
		byDate[records.DateKey(k.Date)] = k.TimeID
	}

	out := make([]KeyedCart, 0, len(rows))
	missing := 0
	for _, row := range rows {
		if id, ok := byDate[records.DateKey(row.Cart.TransactionDate)]; ok {
			row.TimeID = &id
		} else {
			row.TimeID = nil
			missing++
		}
		out = append(out, row)
	}
	if missing > 0 && obs != nil {
		obs.Unresolved("cart date", missing)
	}
	return out
}

// Explode emits one fact candidate per line item, each carrying its cart's
// keys. A line item whose product id is missing or names a product that did
// not survive cleaning gets a nil ProductID, since dim_products has no row
// for it.
func Explode(rows []KeyedCart, products []records.Product, obs Observer) []records.FactSale {
	known := make(map[int64]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}

	var facts []records.FactSale
	missing := 0
	for _, row := range rows {
		for _, item := range row.Cart.Products {
			var productID *int64
			if item.ProductID != nil {
				if _, ok := known[*item.ProductID]; ok {
					id := *item.ProductID
					productID = &id
				}
			}
			if productID == nil {
				missing++
			}
			facts = append(facts, records.FactSale{
				UserID:    row.UserID,
				ProductID: productID,
				TimeID:    row.TimeID,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
			})
		}
	}
	if missing > 0 && obs != nil {
		obs.Unresolved("line item product", missing)
	}
	return facts
}

// Facts runs the joins and the explosion.
func Facts(carts []records.Cart, users []records.User, products []records.Product, keys []records.TimeKey, obs Observer) []records.FactSale {
	return Explode(AttachTimes(AttachUsers(carts, users, obs), keys, obs), products, obs)
}

// Resolved splits fact candidates into those with every key resolved and
// the number left out.
func Resolved(facts []records.FactSale) (resolved []records.FactSale, skipped int) {
	for _, f := range facts {
		if !f.Resolved() {
			skipped++
			continue
		}
		resolved = append(resolved, f)
	}
	return resolved, skipped
}
