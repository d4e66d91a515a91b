package repositories

import (
	"context"

	"github.com/CPU-commits/CareerNest/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NormalizeListingDates rewrites the string dates of a collection as
// datetimes, so mongo sorts on date fields compare real dates.
func NormalizeListingDates(ctx context.Context, kind models.Kind, logger *zap.Logger) (int64, error) {
	model := models.NewListingModel(kind)
	projection := bson.D{}
	for _, field := range models.DATE_FIELDS {
		projection = append(projection, bson.E{Key: field, Value: 1})
	}
	cursor, err := model.GetAll(ctx, models.StringDatesFilter(), options.Find().SetProjection(projection))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var updated int64
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return updated, err
		}
		id, _ := doc["_id"].(primitive.ObjectID)
		set, skipped := models.NormalizeDates(doc)
		if len(skipped) > 0 {
			logger.Warn("unparseable dates", zap.String("id", id.Hex()), zap.Strings("fields", skipped))
		}
		if len(set) == 0 {
			continue
		}
		result, err := model.Update(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}})
		if err != nil {
			return updated, err
		}
		updated += result.ModifiedCount
	}
	return updated, cursor.Err()
}
