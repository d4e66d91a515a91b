package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const NO_SINGLE_DOCUMENT = "mongo: no documents in result"

// Timeout applied to single store round trips started without a deadline.
const QUERY_TIMEOUT = 10 * time.Second

type MongoConnection struct {
	client *mongo.Client
	dbName string
}

// NewConnection connects to mongodb://host and pings the primary, retrying
// with exponential backoff for up to a minute.
func NewConnection(connection, host, dbName string) (*MongoConnection, error) {
	uri := fmt.Sprintf("%s://%s", connection, host)
	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	var client *mongo.Client
	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = time.Minute

	err := backoff.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), QUERY_TIMEOUT)
		defer cancel()

		c, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(ctx)
			return err
		}
		client = c
		return nil
	}, retry)
	if err != nil {
		return nil, fmt.Errorf("mongo connect %s: %w", host, err)
	}
	return &MongoConnection{
		client: client,
		dbName: dbName,
	}, nil
}

func (m *MongoConnection) Database() *mongo.Database {
	return m.client.Database(m.dbName)
}

func (m *MongoConnection) GetCollection(collection string) *mongo.Collection {
	return m.Database().Collection(collection)
}

func (m *MongoConnection) GetCollections() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), QUERY_TIMEOUT)
	defer cancel()
	return m.Database().ListCollectionNames(ctx, bson.D{})
}

func (m *MongoConnection) CreateCollection(name string, opts *options.CreateCollectionOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), QUERY_TIMEOUT)
	defer cancel()
	return m.Database().CreateCollection(ctx, name, opts)
}

func (m *MongoConnection) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
