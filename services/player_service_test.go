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

func playerServiceWithClock(playerRepo *stubPlayerRepo, teamRepo *stubTeamRepo, eventRepo *stubEventRepo, memberRepo *stubMemberRepo, maxPlayers int, now time.Time) *playerService {
	svc := NewPlayerService(playerRepo, teamRepo, eventRepo, memberRepo, maxPlayers, testLogger()).(*playerService)
	svc.now = func() time.Time { return now }
	return svc
}

func rosterTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, CoachID: 12}, nil
		},
		ExistsFn: func(ctx context.Context, id int) (bool, error) { return true, nil },
	}
}

func rosterEventRepo() *stubEventRepo {
	return &stubEventRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Event, error) { return upcomingEvent(), nil },
	}
}

func TestPlayerServiceAdd(t *testing.T) {
	playerRepo := &stubPlayerRepo{
		CountByTeamEventFn: func(ctx context.Context, teamID, eventID int) (int, error) { return 3, nil },
		CreateFn: func(ctx context.Context, p *models.Player) error {
			p.ID = 21
			return nil
		},
	}

	beforeStart := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	svc := playerServiceWithClock(playerRepo, rosterTeamRepo(), rosterEventRepo(), memberExists(), 12, beforeStart)

	player, err := svc.Add(context.Background(), 12, models.RoleCoach, 8, 5, AddPlayerInput{MemberID: 33})
	require.NoError(t, err)
	assert.Equal(t, 21, player.ID)
	assert.Equal(t, 33, player.MemberID)
	assert.Equal(t, 8, player.TeamID)
	assert.Equal(t, 5, player.EventID)
}

func TestPlayerServiceAddForeignCoachForbidden(t *testing.T) {
	beforeStart := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	svc := playerServiceWithClock(&stubPlayerRepo{}, rosterTeamRepo(), rosterEventRepo(), memberExists(), 12, beforeStart)

	_, err := svc.Add(context.Background(), 99, models.RoleCoach, 8, 5, AddPlayerInput{MemberID: 33})
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestPlayerServiceAddAfterEventStart(t *testing.T) {
	afterStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	svc := playerServiceWithClock(&stubPlayerRepo{}, rosterTeamRepo(), rosterEventRepo(), memberExists(), 12, afterStart)

	_, err := svc.Add(context.Background(), 12, models.RoleCoach, 8, 5, AddPlayerInput{MemberID: 33})
	assert.ErrorIs(t, err, ErrEventNotOpen)
}

func TestPlayerServiceAddRosterFull(t *testing.T) {
	playerRepo := &stubPlayerRepo{
		CountByTeamEventFn: func(ctx context.Context, teamID, eventID int) (int, error) { return 12, nil },
	}

	beforeStart := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	svc := playerServiceWithClock(playerRepo, rosterTeamRepo(), rosterEventRepo(), memberExists(), 12, beforeStart)

	_, err := svc.Add(context.Background(), 12, models.RoleCoach, 8, 5, AddPlayerInput{MemberID: 33})
	assert.ErrorIs(t, err, ErrRosterFull)
}

func TestPlayerServiceAddDuplicate(t *testing.T) {
	playerRepo := &stubPlayerRepo{
		CountByTeamEventFn: func(ctx context.Context, teamID, eventID int) (int, error) { return 3, nil },
		CreateFn: func(ctx context.Context, p *models.Player) error {
			return repositories.ErrPlayerEventConflict
		},
	}

	beforeStart := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	svc := playerServiceWithClock(playerRepo, rosterTeamRepo(), rosterEventRepo(), memberExists(), 12, beforeStart)

	_, err := svc.Add(context.Background(), 12, models.RoleCoach, 8, 5, AddPlayerInput{MemberID: 33})
	assert.ErrorIs(t, err, ErrPlayerAlreadyInTeam)
}

func TestPlayerServiceListResolvesNames(t *testing.T) {
	playerRepo := &stubPlayerRepo{
		ListByTeamEventFn: func(ctx context.Context, teamID, eventID int) ([]models.Player, error) {
			return []models.Player{{ID: 1, MemberID: 33}, {ID: 2, MemberID: 44}}, nil
		},
	}
	memberRepo := &stubMemberRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Member, error) {
			if id == 44 {
				return nil, repositories.ErrMemberNotFound
			}
			return &models.Member{ID: id, Name: "Alex Carter"}, nil
		},
	}

	svc := NewPlayerService(playerRepo, rosterTeamRepo(), rosterEventRepo(), memberRepo, 12, testLogger())

	views, err := svc.ListByTeamEvent(context.Background(), 8, 5)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Alex Carter", views[0].MemberName)
	// Несводимое имя не валит весь листинг.
	assert.Empty(t, views[1].MemberName)
}

func TestPlayerServiceRemoveNotFound(t *testing.T) {
	playerRepo := &stubPlayerRepo{
		DeleteFn: func(ctx context.Context, memberID, teamID, eventID int) error {
			return repositories.ErrPlayerNotFound
		},
	}

	svc := NewPlayerService(playerRepo, rosterTeamRepo(), rosterEventRepo(), memberExists(), 12, testLogger())

	err := svc.Remove(context.Background(), 12, models.RoleCoach, 33, 8, 5)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
