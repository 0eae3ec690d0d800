package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"ecommerce-etl/internal/records"
)

// MongoSource reads whole collections from one database.
type MongoSource struct {
	client   *mongo.Client
	database string
}

func NewMongoSource(database string) *MongoSource {
	return &MongoSource{database: database}
}

func (ms *MongoSource) Connect(uri string) error {
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return connectionError("mongo", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return connectionError("mongo", err)
	}
	ms.client = client
	return nil
}

func (ms *MongoSource) Close() error {
	if ms.client == nil {
		return nil
	}
	return ms.client.Disconnect(context.Background())
}

// FetchCollection returns every document of the collection, unfiltered.
func (ms *MongoSource) FetchCollection(ctx context.Context, name string) ([]bson.Raw, error) {
	cursor, err := ms.client.Database(ms.database).Collection(name).Find(ctx, bson.D{})
	if err != nil {
		return nil, connectionError("mongo", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.Raw
	for cursor.Next(ctx) {
		// Current is only valid until the next call to Next.
		doc := make(bson.Raw, len(cursor.Current))
		copy(doc, cursor.Current)
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return docs, nil
}

// DecodeBatch decodes documents into typed rows and records every top-level
// field name seen. Documents that do not decode are skipped and counted.
func DecodeBatch[T any](docs []bson.Raw) (batch *records.Batch[T], undecodable int) {
	batch = records.NewBatch[T](make([]T, 0, len(docs)))
	for _, doc := range docs {
		var row T
		if err := bson.Unmarshal(doc, &row); err != nil {
			undecodable++
			continue
		}
		elems, err := doc.Elements()
		if err != nil {
			undecodable++
			continue
		}
		for _, e := range elems {
			batch.AddColumn(e.Key())
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch, undecodable
}
