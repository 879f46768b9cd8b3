package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sportleague/league-system/models"
)

var (
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrRegistrationConflict   = errors.New("team is already registered for this event")
	ErrRegistrationInvalidRef = errors.New("invalid event or team reference")
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, eventID, teamID int) error
	ListByEvent(ctx context.Context, eventID int) ([]models.RegisteredTeam, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	query := `INSERT INTO registrations (event_id, team_id) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, reg.EventID, reg.TeamID).Scan(&reg.ID)
	return r.handleRegistrationError(err)
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, eventID, teamID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE event_id = $1 AND team_id = $2`, eventID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) ListByEvent(ctx context.Context, eventID int) ([]models.RegisteredTeam, error) {
	query := `
		SELECT r.id, r.team_id, t.name, t.captain_id, t.coach_id
		FROM registrations r
		JOIN teams t ON r.team_id = t.id
		WHERE r.event_id = $1
		ORDER BY t.name`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registered := make([]models.RegisteredTeam, 0)
	for rows.Next() {
		var rt models.RegisteredTeam
		if scanErr := rows.Scan(&rt.RegistrationID, &rt.TeamID, &rt.TeamName, &rt.CaptainID, &rt.CoachID); scanErr != nil {
			return nil, scanErr
		}
		registered = append(registered, rt)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return registered, nil
}

func (r *postgresRegistrationRepository) handleRegistrationError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "registrations_event_id_team_id_key" {
				return ErrRegistrationConflict
			}
		case "23503":
			return ErrRegistrationInvalidRef
		}
	}
	return err
}
