package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
)

type AddPlayerInput struct {
	MemberID int     `json:"member_id"`
	Position *string `json:"position,omitempty"`
}

// PlayerView дополняет запись игрока именем из директории. Директория живёт
// в другом хранилище, JOIN невозможен, поэтому имя подтягивается отдельным
// запросом best-effort.
type PlayerView struct {
	models.Player
	MemberName string `json:"member_name,omitempty"`
}

type PlayerService interface {
	Add(ctx context.Context, actorID int, actorRole models.Role, teamID, eventID int, input AddPlayerInput) (*models.Player, error)
	ListByTeamEvent(ctx context.Context, teamID, eventID int) ([]PlayerView, error)
	Remove(ctx context.Context, actorID int, actorRole models.Role, memberID, teamID, eventID int) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	eventRepo  repositories.EventRepository
	memberRepo repositories.MemberRepository
	maxPlayers int
	now        func() time.Time
	logger     *slog.Logger
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	eventRepo repositories.EventRepository,
	memberRepo repositories.MemberRepository,
	maxPlayers int,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		eventRepo:  eventRepo,
		memberRepo: memberRepo,
		maxPlayers: maxPlayers,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *playerService) Add(ctx context.Context, actorID int, actorRole models.Role, teamID, eventID int, input AddPlayerInput) (*models.Player, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if actorRole != models.RoleAdmin && team.CoachID != actorID {
		return nil, ErrForbiddenOperation
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	// Составы меняются только до старта события.
	if !eventOpen(event, s.now()) {
		return nil, ErrEventNotOpen
	}

	if !checkExists(ctx, s.logger, "member", input.MemberID, s.memberRepo.Exists) {
		return nil, fmt.Errorf("%w: member %d", ErrMemberNotFound, input.MemberID)
	}

	count, err := s.playerRepo.CountByTeamEvent(ctx, teamID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count roster: %w", err)
	}
	if count >= s.maxPlayers {
		return nil, ErrRosterFull
	}

	player := &models.Player{
		MemberID: input.MemberID,
		TeamID:   teamID,
		EventID:  eventID,
		Position: input.Position,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerEventConflict):
			return nil, ErrPlayerAlreadyInTeam
		case errors.Is(err, repositories.ErrPlayerInvalidRef):
			return nil, fmt.Errorf("%w: team or event vanished", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	return player, nil
}

func (s *playerService) ListByTeamEvent(ctx context.Context, teamID, eventID int) ([]PlayerView, error) {
	if exists := checkExists(ctx, s.logger, "team", teamID, s.teamRepo.Exists); !exists {
		return nil, ErrTeamNotFound
	}

	players, err := s.playerRepo.ListByTeamEvent(ctx, teamID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		view := PlayerView{Player: p}
		member, lookupErr := s.memberRepo.GetByID(ctx, p.MemberID)
		if lookupErr != nil {
			s.logger.WarnContext(ctx, "failed to resolve player name from directory",
				slog.Int("member_id", p.MemberID),
				slog.Any("error", lookupErr))
		} else {
			view.MemberName = member.Name
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *playerService) Remove(ctx context.Context, actorID int, actorRole models.Role, memberID, teamID, eventID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team: %w", err)
	}
	if actorRole != models.RoleAdmin && team.CoachID != actorID {
		return ErrForbiddenOperation
	}

	if err := s.playerRepo.Delete(ctx, memberID, teamID, eventID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to remove player: %w", err)
	}
	return nil
}
