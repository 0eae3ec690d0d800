package runner

import (
	"context"

	"github.com/pkg/errors"

	"ecommerce-etl/internal/database"
	"ecommerce-etl/internal/records"
	"ecommerce-etl/internal/transform"
)

const (
	entityUsers    = "users"
	entityProducts = "products"
	entityCarts    = "carts"
)

type cleaned struct {
	users    []records.User
	products []records.Product
	carts    []records.Cart
}

// extract reads the three collections and cleans them. Carts are checked
// against the raw product catalog, so products are fetched before any
// cleaning starts.
func (r *Runner) extract(ctx context.Context, obs Observer, report *Report) (*cleaned, error) {
	var (
		rawUsers    *records.Batch[records.RawUser]
		rawProducts *records.Batch[records.RawProduct]
		rawCarts    *records.Batch[records.RawCart]
	)
	err := r.stage(ctx,
		func(ctx context.Context) (err error) {
			rawUsers, err = fetch[records.RawUser](ctx, r.source, r.opts.Collections.Users, entityUsers, obs, report)
			return err
		},
		func(ctx context.Context) (err error) {
			rawProducts, err = fetch[records.RawProduct](ctx, r.source, r.opts.Collections.Products, entityProducts, obs, report)
			return err
		},
		func(ctx context.Context) (err error) {
			rawCarts, err = fetch[records.RawCart](ctx, r.source, r.opts.Collections.Carts, entityCarts, obs, report)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	data := &cleaned{}
	err = r.stage(ctx,
		func(context.Context) (err error) {
			data.users, err = transform.CleanUsers(rawUsers, obs)
			report.Entities[entityUsers].Cleaned = len(data.users)
			return errors.Wrap(err, "clean users")
		},
		func(context.Context) (err error) {
			data.products, err = transform.CleanProducts(rawProducts, obs)
			report.Entities[entityProducts].Cleaned = len(data.products)
			return errors.Wrap(err, "clean products")
		},
		func(context.Context) (err error) {
			data.carts, err = transform.CleanCarts(rawCarts, rawProducts.Rows, obs)
			report.Entities[entityCarts].Cleaned = len(data.carts)
			return errors.Wrap(err, "clean carts")
		},
	)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func fetch[T any](ctx context.Context, source Source, collection, entity string, obs Observer, report *Report) (*records.Batch[T], error) {
	docs, err := source.FetchCollection(ctx, collection)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", collection)
	}
	batch, undecodable := database.DecodeBatch[T](docs)
	if undecodable > 0 {
		obs.Dropped(entity, "decode", "undecodable", undecodable)
	}
	counts := report.Entities[entity]
	counts.Extracted = len(docs)
	counts.Undecodable = undecodable
	return batch, nil
}
