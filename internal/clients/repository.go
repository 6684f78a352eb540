package clients

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository maintains the client profile upserted on every booking.
// It implements booking.ClientRecorder.
type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) RecordBooking(ctx context.Context, name, contact, date string, at time.Time) error {
	filter := bson.M{"contact": contact}
	update := bson.M{
		"$set": bson.M{
			"name":        name,
			"lastBooking": date,
			"updatedAt":   at,
		},
		"$inc": bson.M{"visits": 1},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"contact":   contact,
			"createdAt": at,
		},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
