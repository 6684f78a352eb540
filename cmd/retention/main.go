package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"barbearia-backend/internal/config"
	"barbearia-backend/internal/db"
	"barbearia-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Retention sweep: hard-deletes appointment rows long past their date, by
// outcome category. The booking core never deletes; this job is the only
// writer that does.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	now := time.Now().In(cfg.Timezone)

	sweeps := []struct {
		label  string
		filter bson.M
		days   int
	}{
		{
			label: "canceled",
			filter: bson.M{
				"status":  models.StatusCanceled,
				"outcome": bson.M{"$in": []interface{}{nil, ""}},
			},
			days: cfg.RetentionCanceledDays,
		},
		{
			label:  "not_fulfilled",
			filter: bson.M{"outcome": models.OutcomeNotFulfilled},
			days:   cfg.RetentionNotFulfilledDays,
		},
		{
			label:  "fulfilled",
			filter: bson.M{"outcome": models.OutcomeFulfilled},
			days:   cfg.RetentionFulfilledDays,
		},
	}

	var total int64
	for _, sweep := range sweeps {
		cutoff := now.AddDate(0, 0, -sweep.days).Format("2006-01-02")
		filter := sweep.filter
		filter["date"] = bson.M{"$lt": cutoff}

		res, err := cols.Appointments.DeleteMany(ctx, filter)
		if err != nil {
			logger.Error("retention sweep failed",
				slog.String("category", sweep.label),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("retention sweep",
			slog.String("category", sweep.label),
			slog.String("cutoff", cutoff),
			slog.Int64("deleted", res.DeletedCount),
		)
		total += res.DeletedCount
	}

	logger.Info("retention done", slog.Int64("total_deleted", total))
}
