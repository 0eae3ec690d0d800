package transform

import (
	"strings"

	"ecommerce-etl/internal/records"
)

type productKey struct {
	title, sku nullable
}

// textField names a free-text product column that must not be blank.
type textField struct {
	name string
	get  func(p *records.RawProduct) **string
}

var productTextFields = []textField{
	{"title", func(p *records.RawProduct) **string { return &p.Title }},
	{"description", func(p *records.RawProduct) **string { return &p.Description }},
	{"category", func(p *records.RawProduct) **string { return &p.Category }},
	{"brand", func(p *records.RawProduct) **string { return &p.Brand }},
	{"sku", func(p *records.RawProduct) **string { return &p.SKU }},
	{"warrantyInformation", func(p *records.RawProduct) **string { return &p.WarrantyInformation }},
	{"shippingInformation", func(p *records.RawProduct) **string { return &p.ShippingInformation }},
	{"availabilityStatus", func(p *records.RawProduct) **string { return &p.AvailabilityStatus }},
	{"returnPolicy", func(p *records.RawProduct) **string { return &p.ReturnPolicy }},
	{"thumbnail", func(p *records.RawProduct) **string { return &p.Thumbnail }},
}

var productPipeline = Pipeline[records.RawProduct]{
	Entity: "products",
	Required: append([]string{
		"id", "price", "discountPercentage", "rating", "stock", "weight", "minimumOrderQuantity",
	}, textFieldNames()...),
	Steps: []Step[records.RawProduct]{
		Each("drop missing values", func(p *records.RawProduct) Verdict {
			switch {
			case p.ID == nil:
				return Drop("missing id")
			case p.Title == nil:
				return Drop("missing title")
			case p.Price == nil:
				return Drop("missing price")
			}
			return Keep
		}),
		DropDuplicates("drop duplicates", func(p *records.RawProduct) productKey {
			return productKey{title: nullableOf(p.Title), sku: nullableOf(p.SKU)}
		}),
		Each("clean text fields", cleanProductText),
		Each("drop inconsistent values", productRanges),
	},
}

// CleanProducts runs the product cleaning steps.
func CleanProducts(batch *records.Batch[records.RawProduct], obs Observer) ([]records.Product, error) {
	rows, err := productPipeline.Run(batch, obs)
	if err != nil {
		return nil, err
	}
	products := make([]records.Product, 0, len(rows))
	for _, p := range rows {
		products = append(products, records.Product{
			ID:                   *p.ID,
			Title:                *p.Title,
			Description:          *p.Description,
			Category:             *p.Category,
			Brand:                *p.Brand,
			SKU:                  *p.SKU,
			Price:                *p.Price,
			DiscountPercentage:   *p.DiscountPercentage,
			Rating:               *p.Rating,
			Stock:                *p.Stock,
			Weight:               *p.Weight,
			MinimumOrderQuantity: *p.MinimumOrderQuantity,
		})
	}
	return products, nil
}

func textFieldNames() []string {
	names := make([]string, 0, len(productTextFields))
	for _, f := range productTextFields {
		names = append(names, f.name)
	}
	return names
}

func cleanProductText(p *records.RawProduct) Verdict {
	for _, f := range productTextFields {
		field := f.get(p)
		if *field == nil {
			return Drop("blank " + f.name)
		}
		trimmed := strings.TrimSpace(**field)
		if trimmed == "" {
			return Drop("blank " + f.name)
		}
		*field = &trimmed
	}
	return Keep
}

func productRanges(p *records.RawProduct) Verdict {
	checks := []struct {
		reason   string
		value    *float64
		min, max float64
		bounded  bool
	}{
		{reason: "negative price", value: p.Price},
		{reason: "discount out of range", value: p.DiscountPercentage, max: 100, bounded: true},
		{reason: "rating out of range", value: p.Rating, max: 5, bounded: true},
		{reason: "negative stock", value: p.Stock},
		{reason: "negative weight", value: p.Weight},
		{reason: "negative minimum order quantity", value: p.MinimumOrderQuantity},
	}
	for _, c := range checks {
		if !atLeast(c.value, c.min) || (c.bounded && !within(c.value, c.min, c.max)) {
			return Drop(c.reason)
		}
	}
	return Keep
}
