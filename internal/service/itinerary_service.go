package service

import (
	"context"
	"fmt"
	"time"

	"finguard/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItineraryService struct {
	repo   ItineraryStore
	logger *zap.Logger
}

func NewItineraryService(repo ItineraryStore, logger *zap.Logger) *ItineraryService {
	return &ItineraryService{
		repo:   repo,
		logger: logger,
	}
}

type SaveItineraryParams struct {
	Location  string
	StartDate time.Time
	EndDate   time.Time
}

// Save overwrites the user's itinerary wholesale. Dates are calendar days;
// time-of-day is discarded.
func (s *ItineraryService) Save(ctx context.Context, userID uuid.UUID, params SaveItineraryParams) (*models.Itinerary, error) {
	if params.Location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}

	start := truncateToDay(params.StartDate)
	end := truncateToDay(params.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	itin := &models.Itinerary{
		UserID:    userID,
		Location:  params.Location,
		StartDate: start,
		EndDate:   end,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, itin); err != nil {
		return nil, fmt.Errorf("save itinerary: %w", err)
	}

	return itin, nil
}

// Get returns the user's itinerary or repository.ErrNotFound when none is
// declared.
func (s *ItineraryService) Get(ctx context.Context, userID uuid.UUID) (*models.Itinerary, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Delete clears the itinerary, which disables the location-mismatch rule
// for future analyses.
func (s *ItineraryService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Delete(ctx, userID)
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
