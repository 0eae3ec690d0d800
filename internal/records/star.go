package records

import "time"

const DateLayout = "2006-01-02"

// DateKey is the join key between carts and dim_time.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDate drops the time of day, keeping the date as written.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type DimUser struct {
	UserID    int64
	FirstName string
	LastName  string
	Age       int
	Gender    string
	City      string
	State     string
	Country   string
}

func (d DimUser) Values() []interface{} {
	return []interface{}{d.UserID, d.FirstName, d.LastName, d.Age, d.Gender, d.City, d.State, d.Country}
}

type DimProduct struct {
	ProductID int64
	Title     string
	Price     float64
	Rating    float64
	Brand     string
}

func (d DimProduct) Values() []interface{} {
	return []interface{}{d.ProductID, d.Title, d.Price, d.Rating, d.Brand}
}

type DimTime struct {
	Date  time.Time
	Year  int
	Month int
	Day   int
}

func NewDimTime(date time.Time) DimTime {
	date = CalendarDate(date)
	return DimTime{Date: date, Year: date.Year(), Month: int(date.Month()), Day: date.Day()}
}

func (d DimTime) Values() []interface{} {
	return []interface{}{d.Date, d.Year, d.Month, d.Day}
}

// TimeKey is a surrogate key assigned by the sink to one dim_time row.
type TimeKey struct {
	TimeID int64
	Date   time.Time
}

// FactSale is one fact_sales candidate. A key stays nil when the cart's
// user, its date or the line item's product could not be resolved against
// the dimensions.
type FactSale struct {
	UserID    *int64
	ProductID *int64
	TimeID    *int64
	UnitPrice float64
	Quantity  int64
}

func (f FactSale) Resolved() bool {
	return f.UserID != nil && f.ProductID != nil && f.TimeID != nil
}

func (f FactSale) Values() []interface{} {
	return []interface{}{*f.UserID, *f.ProductID, *f.TimeID, f.UnitPrice, f.Quantity}
}
