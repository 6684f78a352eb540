package calendar

import (
	"context"

	"barbearia-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	HolidayOn(ctx context.Context, date string) (models.Holiday, bool, error)
	OverrideOn(ctx context.Context, date string) (models.SpecialDay, bool, error)
	InsertHoliday(ctx context.Context, h models.Holiday) error
	DeleteHoliday(ctx context.Context, id string) (bool, error)
	ListHolidays(ctx context.Context, fromDate string) ([]models.Holiday, error)
	InsertOverride(ctx context.Context, sd models.SpecialDay) error
	DeleteOverride(ctx context.Context, id string) (bool, error)
	ListOverrides(ctx context.Context, fromDate string) ([]models.SpecialDay, error)
}

type MongoRepository struct {
	holidays    *mongo.Collection
	specialDays *mongo.Collection
}

func NewRepository(holidays, specialDays *mongo.Collection) *MongoRepository {
	return &MongoRepository{holidays: holidays, specialDays: specialDays}
}

func (r *MongoRepository) HolidayOn(ctx context.Context, date string) (models.Holiday, bool, error) {
	var h models.Holiday
	err := r.holidays.FindOne(ctx, bson.M{"date": date}).Decode(&h)
	if err == mongo.ErrNoDocuments {
		return models.Holiday{}, false, nil
	}
	if err != nil {
		return models.Holiday{}, false, err
	}
	return h, true, nil
}

func (r *MongoRepository) OverrideOn(ctx context.Context, date string) (models.SpecialDay, bool, error) {
	var sd models.SpecialDay
	err := r.specialDays.FindOne(ctx, bson.M{"date": date}).Decode(&sd)
	if err == mongo.ErrNoDocuments {
		return models.SpecialDay{}, false, nil
	}
	if err != nil {
		return models.SpecialDay{}, false, err
	}
	return sd, true, nil
}

func (r *MongoRepository) InsertHoliday(ctx context.Context, h models.Holiday) error {
	_, err := r.holidays.InsertOne(ctx, h)
	return err
}

func (r *MongoRepository) DeleteHoliday(ctx context.Context, id string) (bool, error) {
	res, err := r.holidays.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListHolidays(ctx context.Context, fromDate string) ([]models.Holiday, error) {
	filter := bson.M{}
	if fromDate != "" {
		filter["date"] = bson.M{"$gte": fromDate}
	}
	cursor, err := r.holidays.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Holiday, 0)
	for cursor.Next(ctx) {
		var h models.Holiday
		if err := cursor.Decode(&h); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, cursor.Err()
}

func (r *MongoRepository) InsertOverride(ctx context.Context, sd models.SpecialDay) error {
	_, err := r.specialDays.InsertOne(ctx, sd)
	return err
}

func (r *MongoRepository) DeleteOverride(ctx context.Context, id string) (bool, error) {
	res, err := r.specialDays.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListOverrides(ctx context.Context, fromDate string) ([]models.SpecialDay, error) {
	filter := bson.M{}
	if fromDate != "" {
		filter["date"] = bson.M{"$gte": fromDate}
	}
	cursor, err := r.specialDays.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.SpecialDay, 0)
	for cursor.Next(ctx) {
		var sd models.SpecialDay
		if err := cursor.Decode(&sd); err != nil {
			return nil, err
		}
		items = append(items, sd)
	}
	return items, cursor.Err()
}
