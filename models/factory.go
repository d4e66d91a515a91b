package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collection interface {
	Use() *mongo.Collection
	GetByID(ctx context.Context, id primitive.ObjectID) *mongo.SingleResult
	GetOne(ctx context.Context, filter bson.D) *mongo.SingleResult
	GetAll(ctx context.Context, filter bson.D, options *options.FindOptions) (*mongo.Cursor, error)
	Count(ctx context.Context, filter bson.D) (int64, error)
	NewDocument(ctx context.Context, data interface{}) (*mongo.InsertOneResult, error)
	Update(ctx context.Context, filter bson.D, update bson.D) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, filter bson.D) (*mongo.DeleteResult, error)
}

type model struct {
	CollectionName string
}

func (m *model) Use() *mongo.Collection {
	return DbConnect.GetCollection(m.CollectionName)
}

func (m *model) GetByID(ctx context.Context, id primitive.ObjectID) *mongo.SingleResult {
	return m.Use().FindOne(ctx, bson.D{
		{
			Key:   "_id",
			Value: id,
		},
	})
}

func (m *model) GetOne(ctx context.Context, filter bson.D) *mongo.SingleResult {
	return m.Use().FindOne(ctx, filter)
}

func (m *model) GetAll(ctx context.Context, filter bson.D, options *options.FindOptions) (*mongo.Cursor, error) {
	return m.Use().Find(ctx, filter, options)
}

func (m *model) Count(ctx context.Context, filter bson.D) (int64, error) {
	return m.Use().CountDocuments(ctx, filter)
}

func (m *model) NewDocument(ctx context.Context, data interface{}) (*mongo.InsertOneResult, error) {
	result, err := m.Use().InsertOne(ctx, data)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *model) Update(ctx context.Context, filter bson.D, update bson.D) (*mongo.UpdateResult, error) {
	return m.Use().UpdateOne(ctx, filter, update)
}

func (m *model) Delete(ctx context.Context, filter bson.D) (*mongo.DeleteResult, error) {
	return m.Use().DeleteOne(ctx, filter)
}

var listingModels = map[Kind]*model{}
var userModel *model

func NewListingModel(kind Kind) Collection {
	lock.Lock()
	defer lock.Unlock()
	if listingModel, ok := listingModels[kind]; ok {
		return listingModel
	}
	listingModel := &model{
		CollectionName: MustKind(kind).Collection,
	}
	listingModels[kind] = listingModel
	return listingModel
}

func NewUserModel() Collection {
	lock.Lock()
	defer lock.Unlock()
	if userModel == nil {
		userModel = &model{
			CollectionName: USERS_COLLECTION,
		}
	}
	return userModel
}
