package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UpdatePreferences(ctx context.Context, id primitive.ObjectID, preferences models.Preferences) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoUserRepository struct {
	model models.Collection
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *mongoUserRepository) decode(result *mongo.SingleResult) (*models.User, error) {
	var user *models.User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user: %w", res.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (u *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.decode(u.model.GetOne(ctx, bson.D{{Key: "email", Value: NormalizeEmail(email)}}))
}

func (u *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return u.decode(u.model.GetByID(ctx, id))
}

func (u *mongoUserRepository) Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	user.Email = NormalizeEmail(user.Email)
	result, err := u.model.NewDocument(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("email already registered: %w", res.ErrConflict)
		}
		return primitive.NilObjectID, err
	}
	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (u *mongoUserRepository) updateOne(ctx context.Context, filter bson.D, set bson.D) error {
	set = append(set, bson.E{Key: "updated_at", Value: time.Now().UTC()})
	result, err := u.model.Update(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user: %w", res.ErrNotFound)
	}
	return nil
}

func (u *mongoUserRepository) UpdatePreferences(
	ctx context.Context,
	id primitive.ObjectID,
	preferences models.Preferences,
) error {
	return u.updateOne(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "preferences", Value: preferences}},
	)
}

func (u *mongoUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return u.updateOne(
		ctx,
		bson.D{{Key: "email", Value: NormalizeEmail(email)}},
		bson.D{{Key: "password", Value: passwordHash}},
	)
}

func (u *mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := u.model.Delete(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user: %w", res.ErrNotFound)
	}
	return nil
}

func NewUserRepository() UserRepository {
	return &mongoUserRepository{
		model: models.NewUserModel(),
	}
}
