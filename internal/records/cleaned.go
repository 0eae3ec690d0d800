package records

import "time"

type User struct {
	ID         int64
	FirstName  string
	LastName   string
	MaidenName string
	Age        int
	Gender     string
	Email      string
	Phone      string
	Username   string
	Password   string
	BirthDate  time.Time
	Image      string
	BloodGroup string
	Height     float64
	Weight     float64
	EyeColor   string
	IP         string
	MacAddress string
	University string
	UserAgent  string
	Role       string
	City       string
	State      string
	Country    string
}

type Product struct {
	ID                   int64
	Title                string
	Description          string
	Category             string
	Brand                string
	SKU                  string
	Price                float64
	DiscountPercentage   float64
	Rating               float64
	Stock                float64
	Weight               float64
	MinimumOrderQuantity float64
}

type LineItem struct {
	ProductID *int64
	Quantity  int64
	UnitPrice float64
}

type Cart struct {
	ID              int64
	UserID          int64
	Products        []LineItem
	Total           float64
	DiscountedTotal float64
	TotalProducts   float64
	TotalQuantity   float64
	TransactionDate time.Time
}
