package projector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-etl/internal/records"
)

type unresolved map[string]int

func (u unresolved) Unresolved(what string, count int) {
	u[what] += count
}

func id(v int64) *int64 {
	return &v
}

func day(d int) time.Time {
	return time.Date(2023, time.May, d, 0, 0, 0, 0, time.UTC)
}

func products(ids ...int64) []records.Product {
	out := make([]records.Product, 0, len(ids))
	for _, i := range ids {
		out = append(out, records.Product{ID: i})
	}
	return out
}

func cart(cartID, userID int64, date time.Time, items ...records.LineItem) records.Cart {
	return records.Cart{ID: cartID, UserID: userID, TransactionDate: date, Products: items}
}

func TestDimUsersAndProducts(t *testing.T) {
	users := DimUsers([]records.User{{ID: 1, FirstName: "Maria", LastName: "Silva", Age: 34, Gender: "female", City: "Recife", State: "PE", Country: "Brazil", Email: "x@y.com"}})
	require.Len(t, users, 1)
	assert.Equal(t, []interface{}{int64(1), "Maria", "Silva", 34, "female", "Recife", "PE", "Brazil"}, users[0].Values())

	products := DimProducts([]records.Product{{ID: 9, Title: "Mascara", Price: 9.99, Rating: 4.5, Brand: "Essence", SKU: "X"}})
	require.Len(t, products, 1)
	assert.Equal(t, []interface{}{int64(9), "Mascara", 9.99, 4.5, "Essence"}, products[0].Values())
}

func TestDimTimesDistinctSorted(t *testing.T) {
	carts := []records.Cart{cart(1, 1, day(17)), cart(2, 1, day(3)), cart(3, 2, day(17))}

	rows := DimTimes(carts)

	require.Len(t, rows, 2)
	assert.Equal(t, records.DimTime{Date: day(3), Year: 2023, Month: 5, Day: 3}, rows[0])
	assert.Equal(t, day(17), rows[1].Date)
}

func TestFactsExplodeLineItems(t *testing.T) {
	c := cart(1, 10, day(17),
		records.LineItem{ProductID: id(100), Quantity: 2, UnitPrice: 3.5},
		records.LineItem{ProductID: id(200), Quantity: 1},
	)
	keys := []records.TimeKey{{TimeID: 7, Date: day(17)}}

	facts := Facts([]records.Cart{c}, []records.User{{ID: 10}}, products(100, 200), keys, nil)

	require.Len(t, facts, 2)
	for _, f := range facts {
		require.True(t, f.Resolved())
		assert.Equal(t, int64(10), *f.UserID)
		assert.Equal(t, int64(7), *f.TimeID)
	}
	assert.Equal(t, []interface{}{int64(10), int64(100), int64(7), 3.5, int64(2)}, facts[0].Values())
	assert.Equal(t, 0.0, facts[1].UnitPrice)
}

func TestFactsUnresolvedKeys(t *testing.T) {
	obs := unresolved{}
	carts := []records.Cart{
		cart(1, 10, day(17), records.LineItem{ProductID: id(1), Quantity: 1}),
		cart(2, 99, day(17), records.LineItem{ProductID: id(2), Quantity: 1}),
		cart(3, 10, day(18), records.LineItem{ProductID: id(3), Quantity: 1}, records.LineItem{Quantity: 1}),
	}
	keys := []records.TimeKey{{TimeID: 1, Date: day(17)}}

	facts := Facts(carts, []records.User{{ID: 10}}, products(1, 2, 3), keys, obs)

	require.Len(t, facts, 4)
	assert.Equal(t, unresolved{"cart user": 1, "cart date": 1, "line item product": 1}, obs)
	assert.Nil(t, facts[1].UserID)
	assert.Nil(t, facts[2].TimeID)
	assert.Nil(t, facts[3].ProductID)

	resolved, skipped := Resolved(facts)
	assert.Equal(t, 3, skipped)
	require.Len(t, resolved, 1)
	assert.Equal(t, int64(1), *resolved[0].ProductID)
}

func TestFactsProductCleanedAway(t *testing.T) {
	obs := unresolved{}
	c := cart(1, 10, day(17),
		records.LineItem{ProductID: id(1), Quantity: 1, UnitPrice: 2},
		records.LineItem{ProductID: id(2), Quantity: 4, UnitPrice: 3},
	)
	keys := []records.TimeKey{{TimeID: 1, Date: day(17)}}

	facts := Facts([]records.Cart{c}, []records.User{{ID: 10}}, products(2), keys, obs)

	require.Len(t, facts, 2)
	assert.Nil(t, facts[0].ProductID)
	assert.Equal(t, unresolved{"line item product": 1}, obs)

	resolved, skipped := Resolved(facts)
	assert.Equal(t, 1, skipped)
	require.Len(t, resolved, 1)
	assert.Equal(t, []interface{}{int64(10), int64(2), int64(1), 3.0, int64(4)}, resolved[0].Values())
}

func TestAttachUsersKeepsEveryCart(t *testing.T) {
	rows := AttachUsers([]records.Cart{cart(1, 5, day(1)), cart(2, 6, day(1))}, []records.User{{ID: 6}}, NopObserver{})

	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].UserID)
	assert.Equal(t, int64(6), *rows[1].UserID)
}

func TestAttachTimesMatchesOnCalendarDate(t *testing.T) {
	rows := []KeyedCart{{Cart: cart(1, 1, day(17))}}
	// A DATE column read back in a non-UTC zone still names the same day.
	keys := []records.TimeKey{{TimeID: 4, Date: time.Date(2023, time.May, 17, 0, 0, 0, 0, time.FixedZone("BRT", -3*3600))}}

	out := AttachTimes(rows, keys, nil)

	require.Len(t, out, 1)
	assert.Equal(t, int64(4), *out[0].TimeID)
}
