package booking

import (
	"context"
	"time"

	"barbearia-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var activeStatuses = []string{models.StatusScheduled, models.StatusRescheduled}

type Repository interface {
	Insert(ctx context.Context, appt models.Appointment) error
	FindActiveByDate(ctx context.Context, date string) ([]models.Appointment, error)
	ExistsActiveAt(ctx context.Context, date, timeStr, professional, excludeID string) (bool, error)
	FindByNaturalKey(ctx context.Context, name, contact, date, timeStr, code string) (models.Appointment, error)
	FindByID(ctx context.Context, id string) (models.Appointment, error)
	FindUpcomingByCredential(ctx context.Context, contact, code, fromDate string) ([]models.Appointment, error)
	ApplyReschedule(ctx context.Context, id string, set bson.M) (models.Appointment, error)
	MarkCanceled(ctx context.Context, id string, at time.Time) (models.Appointment, error)
	SetOutcome(ctx context.Context, id, outcome string, cancel bool, at time.Time) (models.Appointment, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	ListAdmin(ctx context.Context, date string, limit, offset int64) ([]models.Appointment, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, appt models.Appointment) error {
	_, err := r.col.InsertOne(ctx, appt)
	return err
}

func (r *MongoRepository) FindActiveByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	filter := bson.M{
		"date":   date,
		"status": bson.M{"$in": activeStatuses},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
}

func (r *MongoRepository) ExistsActiveAt(ctx context.Context, date, timeStr, professional, excludeID string) (bool, error) {
	filter := bson.M{
		"date":         date,
		"time":         timeStr,
		"professional": professional,
		"status":       bson.M{"$in": activeStatuses},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByNaturalKey is the capability check: the access code is part of the
// filter, so a wrong code is indistinguishable from a missing booking.
func (r *MongoRepository) FindByNaturalKey(ctx context.Context, name, contact, date, timeStr, code string) (models.Appointment, error) {
	filter := bson.M{
		"name":       name,
		"contact":    contact,
		"date":       date,
		"time":       timeStr,
		"accessCode": code,
		"status":     bson.M{"$ne": models.StatusCanceled},
	}
	var appt models.Appointment
	if err := r.col.FindOne(ctx, filter).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, err
	}
	return appt, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (models.Appointment, error) {
	var appt models.Appointment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Appointment{}, ErrNotFound
		}
		return models.Appointment{}, err
	}
	return appt, nil
}

func (r *MongoRepository) FindUpcomingByCredential(ctx context.Context, contact, code, fromDate string) ([]models.Appointment, error) {
	filter := bson.M{
		"contact":    contact,
		"accessCode": code,
		"date":       bson.M{"$gte": fromDate},
		"status":     bson.M{"$ne": models.StatusCanceled},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
	}))
}

func (r *MongoRepository) ApplyReschedule(ctx context.Context, id string, set bson.M) (models.Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Appointment
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Appointment{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.Appointment{}, ErrConflict
		}
		return models.Appointment{}, err
	}
	return updated, nil
}

func (r *MongoRepository) MarkCanceled(ctx context.Context, id string, at time.Time) (models.Appointment, error) {
	set := bson.M{
		"status":    models.StatusCanceled,
		"active":    false,
		"updatedAt": at,
	}
	return r.ApplyReschedule(ctx, id, set)
}

func (r *MongoRepository) SetOutcome(ctx context.Context, id, outcome string, cancel bool, at time.Time) (models.Appointment, error) {
	set := bson.M{
		"outcome":   outcome,
		"updatedAt": at,
	}
	if cancel {
		set["status"] = models.StatusCanceled
		set["active"] = false
	}
	return r.ApplyReschedule(ctx, id, set)
}

func (r *MongoRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"accessCode": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoRepository) ListAdmin(ctx context.Context, date string, limit, offset int64) ([]models.Appointment, error) {
	filter := bson.M{}
	if date != "" {
		filter["date"] = date
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}).
		SetLimit(limit).
		SetSkip(offset)
	return r.find(ctx, filter, opts)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Appointment, 0)
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, err
		}
		items = append(items, appt)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// IsDuplicateKey reports whether err is the partial unique index firing, i.e.
// a concurrent writer won the slot between our conflict check and the write.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
