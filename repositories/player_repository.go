package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sportleague/league-system/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found on this team for this event")
	ErrPlayerEventConflict = errors.New("member is already a player in this event")
	ErrPlayerInvalidRef    = errors.New("invalid team or event reference")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	CountByTeamEvent(ctx context.Context, teamID, eventID int) (int, error)
	ListByTeamEvent(ctx context.Context, teamID, eventID int) ([]models.Player, error)
	Delete(ctx context.Context, memberID, teamID, eventID int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (member_id, team_id, event_id, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, p.MemberID, p.TeamID, p.EventID, p.Position).Scan(&p.ID)
	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) CountByTeamEvent(ctx context.Context, teamID, eventID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM players WHERE team_id = $1 AND event_id = $2`, teamID, eventID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresPlayerRepository) ListByTeamEvent(ctx context.Context, teamID, eventID int) ([]models.Player, error) {
	query := `
		SELECT id, member_id, team_id, event_id, position
		FROM players
		WHERE team_id = $1 AND event_id = $2
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, teamID, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.MemberID, &p.TeamID, &p.EventID, &p.Position); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, memberID, teamID, eventID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM players WHERE member_id = $1 AND team_id = $2 AND event_id = $3`,
		memberID, teamID, eventID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "players_member_id_event_id_key" {
				return ErrPlayerEventConflict
			}
		case "23503":
			return ErrPlayerInvalidRef
		}
	}
	return err
}
