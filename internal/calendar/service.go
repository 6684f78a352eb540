package calendar

import (
	"context"
	"errors"
	"time"

	"barbearia-backend/internal/models"
	"barbearia-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("calendar entry not found")
	ErrDateTaken     = errors.New("an entry for this date already exists")
	ErrInvalidWindow = errors.New("special hours must have opening before closing")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{repo: repo, location: location}
}

func (s *Service) CreateHoliday(ctx context.Context, date, description string) (models.Holiday, error) {
	if _, err := schedule.ParseDate(date, s.location); err != nil {
		return models.Holiday{}, err
	}

	h := models.Holiday{
		ID:          primitive.NewObjectID().Hex(),
		Date:        date,
		Description: description,
		CreatedAt:   time.Now().In(s.location),
	}
	if err := s.repo.InsertHoliday(ctx, h); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Holiday{}, ErrDateTaken
		}
		return models.Holiday{}, err
	}
	return h, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteHoliday(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListHolidays(ctx context.Context, fromDate string) ([]models.Holiday, error) {
	return s.repo.ListHolidays(ctx, fromDate)
}

// CreateOverride stores a special-day record: closed, or open with an
// alternate window. An open override requires a coherent opening/closing pair.
func (s *Service) CreateOverride(ctx context.Context, date string, closed bool, opening, closing, message string) (models.SpecialDay, error) {
	if _, err := schedule.ParseDate(date, s.location); err != nil {
		return models.SpecialDay{}, err
	}

	sd := models.SpecialDay{
		ID:        primitive.NewObjectID().Hex(),
		Date:      date,
		Closed:    closed,
		Message:   message,
		CreatedAt: time.Now().In(s.location),
	}
	if !closed {
		openMin, err := schedule.ParseClockToMinutes(opening)
		if err != nil {
			return models.SpecialDay{}, err
		}
		closeMin, err := schedule.ParseClockToMinutes(closing)
		if err != nil {
			return models.SpecialDay{}, err
		}
		if closeMin <= openMin {
			return models.SpecialDay{}, ErrInvalidWindow
		}
		sd.Opening, _ = schedule.NormalizeClock(opening)
		sd.Closing, _ = schedule.NormalizeClock(closing)
	}

	if err := s.repo.InsertOverride(ctx, sd); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.SpecialDay{}, ErrDateTaken
		}
		return models.SpecialDay{}, err
	}
	return sd, nil
}

func (s *Service) DeleteOverride(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteOverride(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListOverrides(ctx context.Context, fromDate string) ([]models.SpecialDay, error) {
	return s.repo.ListOverrides(ctx, fromDate)
}
