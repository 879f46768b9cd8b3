package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sportleague/league-system/models"
)

var (
	ErrVenueNotFound     = errors.New("venue not found")
	ErrVenueNameConflict = errors.New("venue name is already in use")
	ErrVenueInUse        = errors.New("venue is in use (matches exist)")
)

type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	List(ctx context.Context) ([]models.Venue, error)
	Update(ctx context.Context, venue *models.Venue) error
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)
}

type postgresVenueRepository struct {
	db *sql.DB
}

func NewPostgresVenueRepository(db *sql.DB) VenueRepository {
	return &postgresVenueRepository{db: db}
}

func (r *postgresVenueRepository) Create(ctx context.Context, v *models.Venue) error {
	query := `INSERT INTO venues (name, location) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, v.Name, v.Location).Scan(&v.ID)
	return r.handleVenueError(err)
}

func (r *postgresVenueRepository) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	query := `SELECT id, name, location, photo_key FROM venues WHERE id = $1`

	v := &models.Venue{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name, &v.Location, &v.PhotoKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *postgresVenueRepository) List(ctx context.Context) ([]models.Venue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, location, photo_key FROM venues ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := make([]models.Venue, 0)
	for rows.Next() {
		var v models.Venue
		if scanErr := rows.Scan(&v.ID, &v.Name, &v.Location, &v.PhotoKey); scanErr != nil {
			return nil, scanErr
		}
		venues = append(venues, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *postgresVenueRepository) Update(ctx context.Context, v *models.Venue) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE venues SET name = $1, location = $2 WHERE id = $3`, v.Name, v.Location, v.ID)
	if err != nil {
		return r.handleVenueError(err)
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return r.handleVenueError(err)
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) Exists(ctx context.Context, id int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *postgresVenueRepository) handleVenueError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "venues_name_key" {
				return ErrVenueNameConflict
			}
		case "23503":
			return ErrVenueInUse
		}
	}
	return err
}
