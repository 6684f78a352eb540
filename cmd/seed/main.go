package main

import (
	"context"
	"log"
	"os"
	"time"

	"barbearia-backend/internal/auth"
	"barbearia-backend/internal/config"
	"barbearia-backend/internal/db"
	"barbearia-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedHoliday struct {
	Date        string
	Description string
}

type seedSpecialDay struct {
	Date    string
	Closed  bool
	Opening string
	Closing string
	Message string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	year := time.Now().In(cfg.Timezone).Year()
	holidays := []seedHoliday{
		{Date: dateFor(year, 1, 1), Description: "Confraternização Universal"},
		{Date: dateFor(year, 4, 21), Description: "Tiradentes"},
		{Date: dateFor(year, 5, 1), Description: "Dia do Trabalho"},
		{Date: dateFor(year, 9, 7), Description: "Independência do Brasil"},
		{Date: dateFor(year, 10, 12), Description: "Nossa Senhora Aparecida"},
		{Date: dateFor(year, 11, 15), Description: "Proclamação da República"},
		{Date: dateFor(year, 12, 25), Description: "Natal"},
	}

	for _, h := range holidays {
		filter := bson.M{"date": h.Date}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"date":        h.Date,
				"description": h.Description,
				"createdAt":   time.Now().In(cfg.Timezone),
			},
		}
		if _, err := cols.Holidays.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed holiday %s: %v", h.Date, err)
		}
	}
	log.Printf("seeded %d holidays", len(holidays))

	specialDays := []seedSpecialDay{
		{Date: dateFor(year, 12, 24), Closed: false, Opening: "09:00", Closing: "14:00", Message: "Véspera de Natal: horário reduzido"},
		{Date: dateFor(year, 12, 31), Closed: true, Message: "Fechado para a virada do ano"},
	}

	for _, sd := range specialDays {
		filter := bson.M{"date": sd.Date}
		set := bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"date":      sd.Date,
			"closed":    sd.Closed,
			"message":   sd.Message,
			"createdAt": time.Now().In(cfg.Timezone),
		}
		if !sd.Closed {
			set["opening"] = sd.Opening
			set["closing"] = sd.Closing
		}
		update := bson.M{"$setOnInsert": set}
		if _, err := cols.SpecialDays.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed special day %s: %v", sd.Date, err)
		}
	}
	log.Printf("seeded %d special days", len(specialDays))

	if password := os.Getenv("SEED_ADMIN_PASSWORD"); password != "" {
		username := os.Getenv("SEED_ADMIN_USER")
		if username == "" {
			username = "admin"
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatal(err)
		}
		now := time.Now().In(cfg.Timezone)
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":          primitive.NewObjectID().Hex(),
				"username":     username,
				"passwordHash": hash,
				"role":         models.UserRoleAdmin,
				"createdAt":    now,
				"updatedAt":    now,
			},
		}
		if _, err := cols.Users.UpdateOne(ctx, bson.M{"username": username}, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed admin user: %v", err)
		}
		log.Printf("seeded admin user %q", username)
	}
}

func dateFor(year, month, day int) string {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
