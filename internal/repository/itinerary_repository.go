package repository

import (
	"context"
	"errors"

	"finguard/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ItineraryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewItineraryRepository(db *pgxpool.Pool, logger *zap.Logger) *ItineraryRepository {
	return &ItineraryRepository{
		db:     db,
		logger: logger,
	}
}

// Save overwrites the user's itinerary wholesale; a user has at most one.
func (r *ItineraryRepository) Save(ctx context.Context, itin *models.Itinerary) error {
	query := squirrel.Insert("itineraries").
		Columns("user_id", "location", "start_date", "end_date", "updated_at").
		Values(itin.UserID, itin.Location, itin.StartDate, itin.EndDate, itin.UpdatedAt).
		Suffix(`ON CONFLICT (user_id) DO UPDATE
			SET location = EXCLUDED.location,
			    start_date = EXCLUDED.start_date,
			    end_date = EXCLUDED.end_date,
			    updated_at = EXCLUDED.updated_at`).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// GetByUser returns the user's itinerary, or ErrNotFound when the user has
// not declared travel.
func (r *ItineraryRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Itinerary, error) {
	query := squirrel.Select("user_id", "location", "start_date", "end_date", "updated_at").
		From("itineraries").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var itin models.Itinerary
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&itin.UserID, &itin.Location, &itin.StartDate, &itin.EndDate, &itin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &itin, nil
}

// Delete removes the user's itinerary, returning to the "not traveling"
// state. Deleting an absent itinerary is not an error.
func (r *ItineraryRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := squirrel.Delete("itineraries").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
