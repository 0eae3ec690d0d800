package records

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

/*
Raw records are decoded straight from the document store. Every field is
optional: a nil pointer is a missing or null value.

users: {
  id, firstName, lastName, maidenName, age, gender, email, phone, username,
  password, birthDate, image, bloodGroup, height, weight, eyeColor, ip,
  macAddress, university, userAgent, role, cpf, cnpj,
  address: { address, city, state, postalCode, country }
}

products: {
  id, title, description, category, price, discountPercentage, rating,
  stock, brand, sku, weight, warrantyInformation, shippingInformation,
  availabilityStatus, returnPolicy, minimumOrderQuantity, thumbnail
}

carts: {
  id, userId, total, discountedTotal, totalProducts, totalQuantity,
  transaction_date: <int epoch seconds | string | date>,
  products: [ { id, title, quantity, unitPrice } ]
}
*/

type RawAddress struct {
	Address    *string `bson:"address"`
	City       *string `bson:"city"`
	State      *string `bson:"state"`
	PostalCode *string `bson:"postalCode"`
	Country    *string `bson:"country"`
}

type RawUser struct {
	ID         *int64      `bson:"id"`
	FirstName  *string     `bson:"firstName"`
	LastName   *string     `bson:"lastName"`
	MaidenName *string     `bson:"maidenName"`
	Age        *float64    `bson:"age"`
	Gender     *string     `bson:"gender"`
	Email      *string     `bson:"email"`
	Phone      *string     `bson:"phone"`
	Username   *string     `bson:"username"`
	Password   *string     `bson:"password"`
	BirthDate  *string     `bson:"birthDate"`
	Image      *string     `bson:"image"`
	BloodGroup *string     `bson:"bloodGroup"`
	Height     *float64    `bson:"height"`
	Weight     *float64    `bson:"weight"`
	EyeColor   *string     `bson:"eyeColor"`
	IP         *string     `bson:"ip"`
	MacAddress *string     `bson:"macAddress"`
	University *string     `bson:"university"`
	UserAgent  *string     `bson:"userAgent"`
	Role       *string     `bson:"role"`
	CPF        *string     `bson:"cpf"`
	CNPJ       *string     `bson:"cnpj"`
	Address    *RawAddress `bson:"address"`

	// Filled by the cleaning steps.
	City    *string   `bson:"-"`
	State   *string   `bson:"-"`
	Country *string   `bson:"-"`
	Born    time.Time `bson:"-"`
}

type RawProduct struct {
	ID                   *int64   `bson:"id"`
	Title                *string  `bson:"title"`
	Description          *string  `bson:"description"`
	Category             *string  `bson:"category"`
	Price                *float64 `bson:"price"`
	DiscountPercentage   *float64 `bson:"discountPercentage"`
	Rating               *float64 `bson:"rating"`
	Stock                *float64 `bson:"stock"`
	Brand                *string  `bson:"brand"`
	SKU                  *string  `bson:"sku"`
	Weight               *float64 `bson:"weight"`
	WarrantyInformation  *string  `bson:"warrantyInformation"`
	ShippingInformation  *string  `bson:"shippingInformation"`
	AvailabilityStatus   *string  `bson:"availabilityStatus"`
	ReturnPolicy         *string  `bson:"returnPolicy"`
	MinimumOrderQuantity *float64 `bson:"minimumOrderQuantity"`
	Thumbnail            *string  `bson:"thumbnail"`
}

type RawLineItem struct {
	ProductID *int64   `bson:"id"`
	Title     *string  `bson:"title"`
	Quantity  *float64 `bson:"quantity"`
	UnitPrice *float64 `bson:"unitPrice"`
}

type RawCart struct {
	ID              *int64        `bson:"id"`
	UserID          *int64        `bson:"userId"`
	Products        []RawLineItem `bson:"products"`
	Total           *float64      `bson:"total"`
	DiscountedTotal *float64      `bson:"discountedTotal"`
	TotalProducts   *float64      `bson:"totalProducts"`
	TotalQuantity   *float64      `bson:"totalQuantity"`
	TransactionDate bson.RawValue `bson:"transaction_date"`

	// Calendar date parsed by the cleaning steps.
	Date time.Time `bson:"-"`
}
