package models

import (
	"context"
	"fmt"
	"sync"

	"github.com/CPU-commits/CareerNest/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var lock = &sync.Mutex{}

// MongoDB
var DbConnect *db.MongoConnection

// Init binds the models to a connection and makes sure every collection
// exists with its validator and unique indexes.
func Init(conn *db.MongoConnection) error {
	DbConnect = conn

	collections, err := DbConnect.GetCollections()
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(collections))
	for _, collection := range collections {
		existing[collection] = true
	}

	for _, spec := range kinds {
		if !existing[spec.Collection] {
			if err := DbConnect.CreateCollection(spec.Collection, &options.CreateCollectionOptions{
				Validator: bson.M{"$jsonSchema": listingSchema(spec)},
			}); err != nil {
				return fmt.Errorf("create collection %s: %w", spec.Collection, err)
			}
		}
		if err := ensureUnique(spec.Collection, "slug"); err != nil {
			return err
		}
	}

	if !existing[USERS_COLLECTION] {
		if err := DbConnect.CreateCollection(USERS_COLLECTION, &options.CreateCollectionOptions{
			Validator: bson.M{"$jsonSchema": usersSchema()},
		}); err != nil {
			return fmt.Errorf("create collection %s: %w", USERS_COLLECTION, err)
		}
	}
	return ensureUnique(USERS_COLLECTION, "email")
}

func ensureUnique(collection, field string) error {
	ctx, cancel := context.WithTimeout(context.Background(), db.QUERY_TIMEOUT)
	defer cancel()

	_, err := DbConnect.GetCollection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("unique index %s.%s: %w", collection, field, err)
	}
	return nil
}

// Dates are left untyped in the validator: older documents store them as strings.
func listingSchema(spec KindSpec) bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{spec.TitleField, "slug"},
		"properties": bson.M{
			spec.TitleField: bson.M{"bsonType": "string"},
			spec.OrgField:   bson.M{"bsonType": "string"},
			"slug":          bson.M{"bsonType": "string"},
			"keywords": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},
			"is_featured": bson.M{"bsonType": "bool"},
		},
	}
}
