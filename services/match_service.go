package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
)

// Broadcaster рассылает событие всем подписчикам комнаты. Реализуется
// websocket-хабом; nil-безопасные обёртки на стороне сервиса.
type Broadcaster interface {
	BroadcastToRoom(room string, message interface{})
}

type ScheduleMatchInput struct {
	EventID int         `json:"event_id"`
	Team1ID int         `json:"team1_id"`
	Team2ID int         `json:"team2_id"`
	Date    time.Time   `json:"date"`
	Slot    models.Slot `json:"slot"`
	VenueID int         `json:"venue_id"`
}

type UpdateScoreInput struct {
	Team1Score int  `json:"team1_score"`
	Team2Score int  `json:"team2_score"`
	WinnerID   *int `json:"winner_id,omitempty"`
}

type MatchService interface {
	Schedule(ctx context.Context, input ScheduleMatchInput) (*models.Match, error)
	CheckConflicts(ctx context.Context, input ScheduleMatchInput, excludeMatchID *int) error
	GetDetails(ctx context.Context, id int) (*models.MatchDetails, error)
	List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.MatchDetails, error)
	UpdateScore(ctx context.Context, id int, input UpdateScoreInput) (*models.MatchDetails, error)
	Delete(ctx context.Context, id int) error
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	eventRepo   repositories.EventRepository
	teamRepo    repositories.TeamRepository
	venueRepo   repositories.VenueRepository
	txManager   repositories.TxManager
	broadcaster Broadcaster
	logger      *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
	teamRepo repositories.TeamRepository,
	venueRepo repositories.VenueRepository,
	txManager repositories.TxManager,
	broadcaster Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		eventRepo:   eventRepo,
		teamRepo:    teamRepo,
		venueRepo:   venueRepo,
		txManager:   txManager,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Schedule проверяет заявку, прогоняет детектор конфликтов и создаёт матч.
// Детектор работает внутри той же транзакции, что и вставка; уникальные
// индексы в БД страхуют от гонок между параллельными планировщиками.
func (s *matchService) Schedule(ctx context.Context, input ScheduleMatchInput) (*models.Match, error) {
	if err := s.validateScheduleInput(ctx, input); err != nil {
		return nil, err
	}

	match := &models.Match{
		EventID: input.EventID,
		Team1ID: input.Team1ID,
		Team2ID: input.Team2ID,
		Date:    input.Date,
		Slot:    input.Slot,
		VenueID: input.VenueID,
	}

	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if conflictErr := s.detectConflicts(ctx, exec, input, nil); conflictErr != nil {
			return conflictErr
		}
		return s.matchRepo.Create(ctx, exec, match)
	})
	if err != nil {
		return nil, s.mapScheduleError(input, err)
	}

	s.broadcast(match.EventID, "match_scheduled", match)
	return match, nil
}

// CheckConflicts — детектор без записи: для предварительной проверки формы
// и для переноса существующего матча (excludeMatchID).
func (s *matchService) CheckConflicts(ctx context.Context, input ScheduleMatchInput, excludeMatchID *int) error {
	if err := s.validateScheduleInput(ctx, input); err != nil {
		return err
	}
	return s.detectConflicts(ctx, nil, input, excludeMatchID)
}

// detectConflicts проверяет тройку (event, date, slot) в фиксированном
// порядке: площадка, первая команда, вторая команда. Первый найденный
// конфликт останавливает проверку, его формулировка уходит клиенту как есть.
func (s *matchService) detectConflicts(ctx context.Context, exec repositories.SQLExecutor, input ScheduleMatchInput, excludeMatchID *int) error {
	day := input.Date.Format("2006-01-02")

	booked, err := s.matchRepo.FindVenueBooking(ctx, exec, input.EventID, input.Date, input.Slot, input.VenueID, excludeMatchID)
	if err != nil {
		return fmt.Errorf("failed to check venue booking: %w", err)
	}
	if booked != nil {
		return &ScheduleConflictError{Message: fmt.Sprintf(
			"Venue conflict: Venue %d is already booked for slot %s on %s.", input.VenueID, input.Slot, day)}
	}

	for _, teamID := range []int{input.Team1ID, input.Team2ID} {
		booked, err = s.matchRepo.FindTeamBooking(ctx, exec, input.EventID, input.Date, input.Slot, teamID, excludeMatchID)
		if err != nil {
			return fmt.Errorf("failed to check team booking: %w", err)
		}
		if booked != nil {
			return &ScheduleConflictError{Message: fmt.Sprintf(
				"Team conflict: Team %d already has a match in slot %s on %s.", teamID, input.Slot, day)}
		}
	}
	return nil
}

func (s *matchService) validateScheduleInput(ctx context.Context, input ScheduleMatchInput) error {
	if input.Team1ID == input.Team2ID {
		return ErrMatchSameTeam
	}
	if !input.Slot.Valid() {
		return fmt.Errorf("%w: %q", ErrMatchInvalidSlot, input.Slot)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: match date is required", ErrValidationFailed)
	}

	// Ссылки проверяются параллельно, но результаты разбираются в
	// фиксированном порядке, чтобы выбор ошибки был детерминированным.
	var eventOK, team1OK, team2OK, venueOK bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		eventOK = checkExists(gctx, s.logger, "event", input.EventID, s.eventRepo.Exists)
		return nil
	})
	g.Go(func() error {
		team1OK = checkExists(gctx, s.logger, "team", input.Team1ID, s.teamRepo.Exists)
		return nil
	})
	g.Go(func() error {
		team2OK = checkExists(gctx, s.logger, "team", input.Team2ID, s.teamRepo.Exists)
		return nil
	})
	g.Go(func() error {
		venueOK = checkExists(gctx, s.logger, "venue", input.VenueID, s.venueRepo.Exists)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	switch {
	case !eventOK:
		return ErrEventNotFound
	case !team1OK:
		return fmt.Errorf("%w: team %d", ErrTeamNotFound, input.Team1ID)
	case !team2OK:
		return fmt.Errorf("%w: team %d", ErrTeamNotFound, input.Team2ID)
	case !venueOK:
		return ErrVenueNotFound
	}
	return nil
}

// mapScheduleError переводит нарушение страховочного индекса в ту же
// формулировку конфликта, что выдал бы детектор.
func (s *matchService) mapScheduleError(input ScheduleMatchInput, err error) error {
	var conflict *ScheduleConflictError
	if errors.As(err, &conflict) {
		return conflict
	}

	day := input.Date.Format("2006-01-02")
	switch {
	case errors.Is(err, repositories.ErrMatchVenueTaken):
		return &ScheduleConflictError{Message: fmt.Sprintf(
			"Venue conflict: Venue %d is already booked for slot %s on %s.", input.VenueID, input.Slot, day)}
	case errors.Is(err, repositories.ErrMatchTeam1Booked):
		return &ScheduleConflictError{Message: fmt.Sprintf(
			"Team conflict: Team %d already has a match in slot %s on %s.", input.Team1ID, input.Slot, day)}
	case errors.Is(err, repositories.ErrMatchTeam2Booked):
		return &ScheduleConflictError{Message: fmt.Sprintf(
			"Team conflict: Team %d already has a match in slot %s on %s.", input.Team2ID, input.Slot, day)}
	case errors.Is(err, repositories.ErrMatchInvalidEvent):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrMatchInvalidTeam):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrMatchInvalidVenue):
		return ErrVenueNotFound
	}
	return fmt.Errorf("failed to schedule match: %w", err)
}

func (s *matchService) GetDetails(ctx context.Context, id int) (*models.MatchDetails, error) {
	details, err := s.matchRepo.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return details, nil
}

func (s *matchService) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.MatchDetails, error) {
	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// UpdateScore перезаписывает счёт и победителя; повторное обновление
// допустимо. Победитель, если задан, обязан быть одной из двух команд.
func (s *matchService) UpdateScore(ctx context.Context, id int, input UpdateScoreInput) (*models.MatchDetails, error) {
	if input.Team1Score < 0 || input.Team2Score < 0 {
		return nil, ErrMatchInvalidScore
	}

	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if input.WinnerID != nil && *input.WinnerID != match.Team1ID && *input.WinnerID != match.Team2ID {
		return nil, ErrMatchInvalidWinner
	}

	if err := s.matchRepo.UpdateScore(ctx, id, input.Team1Score, input.Team2Score, input.WinnerID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		case errors.Is(err, repositories.ErrMatchInvalidWinner):
			return nil, ErrMatchInvalidWinner
		}
		return nil, fmt.Errorf("failed to update score: %w", err)
	}

	details, err := s.matchRepo.GetDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload match: %w", err)
	}

	s.broadcast(details.EventID, "score_updated", details)
	return details, nil
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to get match: %w", err)
	}

	if err := s.matchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match: %w", err)
	}

	s.broadcast(match.EventID, "match_deleted", map[string]int{"match_id": id})
	return nil
}

func (s *matchService) broadcast(eventID int, kind string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	room := fmt.Sprintf("event_%d", eventID)
	s.broadcaster.BroadcastToRoom(room, map[string]interface{}{
		"type":    kind,
		"payload": payload,
	})
}
