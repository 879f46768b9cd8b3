package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sportleague/league-system/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchVenueTaken    = errors.New("venue is already booked for this slot")
	ErrMatchTeam1Booked   = errors.New("team1 already has a match in this slot")
	ErrMatchTeam2Booked   = errors.New("team2 already has a match in this slot")
	ErrMatchInvalidEvent  = errors.New("invalid event reference")
	ErrMatchInvalidTeam   = errors.New("invalid team reference")
	ErrMatchInvalidVenue  = errors.New("invalid venue reference")
	ErrMatchInvalidWinner = errors.New("winner must be one of the participating teams")
)

type ListMatchesFilter struct {
	EventID *int
	TeamID  *int
	VenueID *int
	Date    *time.Time
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	GetDetails(ctx context.Context, id int) (*models.MatchDetails, error)
	List(ctx context.Context, filter ListMatchesFilter) ([]models.MatchDetails, error)
	UpdateScore(ctx context.Context, id, team1Score, team2Score int, winnerID *int) error
	Delete(ctx context.Context, id int) error

	// FindVenueBooking и FindTeamBooking — запросы детектора конфликтов:
	// возвращают id занявшего матча в той же тройке (event, date, slot)
	// либо nil. excludeMatchID поддерживает update-in-place.
	FindVenueBooking(ctx context.Context, exec SQLExecutor, eventID int, date time.Time, slot models.Slot, venueID int, excludeMatchID *int) (*int, error)
	FindTeamBooking(ctx context.Context, exec SQLExecutor, eventID int, date time.Time, slot models.Slot, teamID int, excludeMatchID *int) (*int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (event_id, team1_id, team2_id, match_date, slot, venue_id, team1_score, team2_score, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, NULL)
		RETURNING id, team1_score, team2_score, created_at`

	err := executor.QueryRowContext(ctx, query,
		m.EventID, m.Team1ID, m.Team2ID, m.Date, m.Slot, m.VenueID,
	).Scan(&m.ID, &m.Team1Score, &m.Team2Score, &m.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, event_id, team1_id, team2_id, match_date, slot, venue_id, team1_score, team2_score, winner_id, created_at
		FROM matches
		WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.EventID, &m.Team1ID, &m.Team2ID, &m.Date, &m.Slot, &m.VenueID,
		&m.Team1Score, &m.Team2Score, &m.WinnerID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

const matchDetailsQuery = `
	SELECT m.id, m.event_id, m.team1_id, m.team2_id, m.match_date, m.slot, m.venue_id,
	       m.team1_score, m.team2_score, m.winner_id, m.created_at,
	       e.name, t1.name, t2.name, v.name, win.name
	FROM matches m
	JOIN events e ON m.event_id = e.id
	JOIN teams t1 ON m.team1_id = t1.id
	JOIN teams t2 ON m.team2_id = t2.id
	JOIN venues v ON m.venue_id = v.id
	LEFT JOIN teams win ON m.winner_id = win.id`

func scanMatchDetails(scanner interface{ Scan(...interface{}) error }) (*models.MatchDetails, error) {
	d := &models.MatchDetails{}
	err := scanner.Scan(
		&d.ID, &d.EventID, &d.Team1ID, &d.Team2ID, &d.Date, &d.Slot, &d.VenueID,
		&d.Team1Score, &d.Team2Score, &d.WinnerID, &d.CreatedAt,
		&d.EventName, &d.Team1Name, &d.Team2Name, &d.VenueName, &d.WinnerName,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *postgresMatchRepository) GetDetails(ctx context.Context, id int) (*models.MatchDetails, error) {
	query := matchDetailsQuery + ` WHERE m.id = $1`

	details, err := scanMatchDetails(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return details, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]models.MatchDetails, error) {
	query := matchDetailsQuery + ` WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.EventID != nil {
		query += fmt.Sprintf(" AND m.event_id = $%d", argID)
		args = append(args, *filter.EventID)
		argID++
	}
	if filter.TeamID != nil {
		query += fmt.Sprintf(" AND (m.team1_id = $%d OR m.team2_id = $%d)", argID, argID)
		args = append(args, *filter.TeamID)
		argID++
	}
	if filter.VenueID != nil {
		query += fmt.Sprintf(" AND m.venue_id = $%d", argID)
		args = append(args, *filter.VenueID)
		argID++
	}
	if filter.Date != nil {
		query += fmt.Sprintf(" AND m.match_date = $%d", argID)
		args = append(args, *filter.Date)
	}

	query += " ORDER BY m.match_date, m.slot"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.MatchDetails, 0)
	for rows.Next() {
		details, scanErr := scanMatchDetails(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, *details)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, id, team1Score, team2Score int, winnerID *int) error {
	query := `UPDATE matches SET team1_score = $1, team2_score = $2, winner_id = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, team1Score, team2Score, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) FindVenueBooking(ctx context.Context, exec SQLExecutor, eventID int, date time.Time, slot models.Slot, venueID int, excludeMatchID *int) (*int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id FROM matches
		WHERE event_id = $1 AND match_date = $2 AND slot = $3 AND venue_id = $4`
	args := []interface{}{eventID, date, slot, venueID}

	if excludeMatchID != nil {
		query += " AND id != $5"
		args = append(args, *excludeMatchID)
	}
	query += " LIMIT 1"

	var matchID int
	err := executor.QueryRowContext(ctx, query, args...).Scan(&matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &matchID, nil
}

func (r *postgresMatchRepository) FindTeamBooking(ctx context.Context, exec SQLExecutor, eventID int, date time.Time, slot models.Slot, teamID int, excludeMatchID *int) (*int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id FROM matches
		WHERE event_id = $1 AND match_date = $2 AND slot = $3 AND (team1_id = $4 OR team2_id = $4)`
	args := []interface{}{eventID, date, slot, teamID}

	if excludeMatchID != nil {
		query += " AND id != $5"
		args = append(args, *excludeMatchID)
	}
	query += " LIMIT 1"

	var matchID int
	err := executor.QueryRowContext(ctx, query, args...).Scan(&matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &matchID, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			// Страховочные уникальные индексы: детектор обычно срабатывает
			// раньше, но при гонке нарушение ловится здесь и маппится в те
			// же доменные конфликты.
			switch pqErr.Constraint {
			case "matches_event_slot_venue_key":
				return ErrMatchVenueTaken
			case "matches_event_slot_team1_key":
				return ErrMatchTeam1Booked
			case "matches_event_slot_team2_key":
				return ErrMatchTeam2Booked
			}
		case "23503":
			switch pqErr.Constraint {
			case "matches_event_id_fkey":
				return ErrMatchInvalidEvent
			case "matches_team1_id_fkey", "matches_team2_id_fkey":
				return ErrMatchInvalidTeam
			case "matches_venue_id_fkey":
				return ErrMatchInvalidVenue
			}
		case "23514":
			if pqErr.Constraint == "matches_winner_check" {
				return ErrMatchInvalidWinner
			}
		}
	}
	return err
}
