package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
)

func upcomingEvent() *models.Event {
	return &models.Event{
		ID:          5,
		Name:        "Spring Cup",
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		OrganizerID: 40,
	}
}

func eventServiceWithClock(eventRepo *stubEventRepo, registrationRepo *stubRegistrationRepo, teamRepo *stubTeamRepo, now time.Time) *eventService {
	svc := NewEventService(eventRepo, registrationRepo, teamRepo, testLogger()).(*eventService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestEventServiceCreateValidation(t *testing.T) {
	svc := NewEventService(&stubEventRepo{}, &stubRegistrationRepo{}, &stubTeamRepo{}, testLogger())

	_, err := svc.Create(context.Background(), 40, EventInput{Name: "  "})
	assert.ErrorIs(t, err, ErrEventNameRequired)

	_, err = svc.Create(context.Background(), 40, EventInput{
		Name:      "Spring Cup",
		StartDate: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrEventInvalidDateRange)
}

func TestEventServiceCreateSetsOrganizer(t *testing.T) {
	var created *models.Event
	eventRepo := &stubEventRepo{CreateFn: func(ctx context.Context, e *models.Event) error {
		e.ID = 5
		created = e
		return nil
	}}

	svc := NewEventService(eventRepo, &stubRegistrationRepo{}, &stubTeamRepo{}, testLogger())

	event, err := svc.Create(context.Background(), 40, EventInput{
		Name:      " Spring Cup ",
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, event.ID)
	assert.Equal(t, "Spring Cup", event.Name)
	require.NotNil(t, created)
	assert.Equal(t, 40, created.OrganizerID)
}

func TestEventServiceUpdateAuthorization(t *testing.T) {
	eventRepo := &stubEventRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return upcomingEvent(), nil },
		UpdateFn:  func(ctx context.Context, e *models.Event) error { return nil },
	}

	svc := NewEventService(eventRepo, &stubRegistrationRepo{}, &stubTeamRepo{}, testLogger())

	input := EventInput{
		Name:      "Spring Cup",
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	}

	// Чужой организатор.
	_, err := svc.Update(context.Background(), 99, models.RoleOrganizer, 5, input)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	// Владелец.
	_, err = svc.Update(context.Background(), 40, models.RoleOrganizer, 5, input)
	assert.NoError(t, err)

	// Админ может всё.
	_, err = svc.Update(context.Background(), 99, models.RoleAdmin, 5, input)
	assert.NoError(t, err)
}

func TestEventServiceRegisterTeam(t *testing.T) {
	eventRepo := &stubEventRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return upcomingEvent(), nil },
	}
	teamRepo := &stubTeamRepo{ExistsFn: func(ctx context.Context, id int) (bool, error) { return true, nil }}
	registrationRepo := &stubRegistrationRepo{CreateFn: func(ctx context.Context, reg *models.Registration) error {
		reg.ID = 11
		return nil
	}}

	beforeStart := time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC)
	svc := eventServiceWithClock(eventRepo, registrationRepo, teamRepo, beforeStart)

	reg, err := svc.RegisterTeam(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, reg.ID)
	assert.Equal(t, 5, reg.EventID)
	assert.Equal(t, 10, reg.TeamID)
}

// Регистрация закрывается ровно в момент старта события.
func TestEventServiceRegisterTeamClosedEvent(t *testing.T) {
	eventRepo := &stubEventRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return upcomingEvent(), nil },
	}

	atStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	svc := eventServiceWithClock(eventRepo, &stubRegistrationRepo{}, &stubTeamRepo{}, atStart)

	_, err := svc.RegisterTeam(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrEventNotOpen)
}

func TestEventServiceRegisterTeamDuplicate(t *testing.T) {
	eventRepo := &stubEventRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return upcomingEvent(), nil },
	}
	teamRepo := &stubTeamRepo{ExistsFn: func(ctx context.Context, id int) (bool, error) { return true, nil }}
	registrationRepo := &stubRegistrationRepo{CreateFn: func(ctx context.Context, reg *models.Registration) error {
		return repositories.ErrRegistrationConflict
	}}

	beforeStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	svc := eventServiceWithClock(eventRepo, registrationRepo, teamRepo, beforeStart)

	_, err := svc.RegisterTeam(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestEventServiceUnregisterTeamClosedEvent(t *testing.T) {
	eventRepo := &stubEventRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return upcomingEvent(), nil },
	}

	afterStart := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	svc := eventServiceWithClock(eventRepo, &stubRegistrationRepo{}, &stubTeamRepo{}, afterStart)

	err := svc.UnregisterTeam(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrEventNotOpen)
}

func TestEventServiceListRegistrationsUnknownEvent(t *testing.T) {
	eventRepo := &stubEventRepo{ExistsFn: func(ctx context.Context, id int) (bool, error) { return false, nil }}

	svc := NewEventService(eventRepo, &stubRegistrationRepo{}, &stubTeamRepo{}, testLogger())

	_, err := svc.ListRegistrations(context.Background(), 404)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
