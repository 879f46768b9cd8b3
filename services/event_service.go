package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
)

type EventInput struct {
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	Description *string   `json:"description,omitempty"`
}

type EventService interface {
	Create(ctx context.Context, organizerID int, input EventInput) (*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, actorID int, actorRole models.Role, id int, input EventInput) (*models.Event, error)
	Delete(ctx context.Context, actorID int, actorRole models.Role, id int) error

	RegisterTeam(ctx context.Context, eventID, teamID int) (*models.Registration, error)
	UnregisterTeam(ctx context.Context, eventID, teamID int) error
	ListRegistrations(ctx context.Context, eventID int) ([]models.RegisteredTeam, error)
}

type eventService struct {
	eventRepo        repositories.EventRepository
	registrationRepo repositories.RegistrationRepository
	teamRepo         repositories.TeamRepository
	now              func() time.Time
	logger           *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	registrationRepo repositories.RegistrationRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		teamRepo:         teamRepo,
		now:              time.Now,
		logger:           logger,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID int, input EventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEventNameRequired
	}
	if err := validateEventDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:        strings.TrimSpace(input.Name),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    input.Location,
		Description: input.Description,
		OrganizerID: organizerID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, actorID int, actorRole models.Role, id int, input EventInput) (*models.Event, error) {
	event, err := s.authorizeEventAction(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEventNameRequired
	}
	if err := validateEventDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	event.Name = strings.TrimSpace(input.Name)
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate
	event.Location = input.Location
	event.Description = input.Description

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, actorID int, actorRole models.Role, id int) error {
	if _, err := s.authorizeEventAction(ctx, actorID, actorRole, id); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound):
			return ErrEventNotFound
		case errors.Is(err, repositories.ErrEventInUse):
			return ErrEventInUse
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// RegisterTeam принимает заявку команды, пока событие не стартовало.
func (s *eventService) RegisterTeam(ctx context.Context, eventID, teamID int) (*models.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !eventOpen(event, s.now()) {
		return nil, ErrEventNotOpen
	}

	if !checkExists(ctx, s.logger, "team", teamID, s.teamRepo.Exists) {
		return nil, ErrTeamNotFound
	}

	reg := &models.Registration{EventID: eventID, TeamID: teamID}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRegistrationConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrRegistrationInvalidRef):
			return nil, fmt.Errorf("%w: event or team vanished", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to register team: %w", err)
	}
	return reg, nil
}

func (s *eventService) UnregisterTeam(ctx context.Context, eventID, teamID int) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}
	if !eventOpen(event, s.now()) {
		return ErrEventNotOpen
	}

	if err := s.registrationRepo.Delete(ctx, eventID, teamID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to unregister team: %w", err)
	}
	return nil
}

func (s *eventService) ListRegistrations(ctx context.Context, eventID int) ([]models.RegisteredTeam, error) {
	if !checkExists(ctx, s.logger, "event", eventID, s.eventRepo.Exists) {
		return nil, ErrEventNotFound
	}

	registered, err := s.registrationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registered, nil
}

// authorizeEventAction допускает админа и организатора-владельца события.
func (s *eventService) authorizeEventAction(ctx context.Context, actorID int, actorRole models.Role, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if actorRole != models.RoleAdmin && event.OrganizerID != actorID {
		return nil, ErrForbiddenOperation
	}
	return event, nil
}
