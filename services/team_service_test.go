package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
)

func teamInput() TeamInput {
	return TeamInput{Name: "Falcons", CaptainID: 11, CoachID: 12}
}

func TestTeamServiceCreate(t *testing.T) {
	teamRepo := &stubTeamRepo{CreateFn: func(ctx context.Context, team *models.Team) error {
		team.ID = 8
		return nil
	}}

	svc := NewTeamService(teamRepo, memberExists(), nil, testLogger())

	// Тренер создаёт собственную команду.
	team, err := svc.Create(context.Background(), 12, models.RoleCoach, teamInput())
	require.NoError(t, err)
	assert.Equal(t, 8, team.ID)
	assert.Equal(t, "Falcons", team.Name)
}

func TestTeamServiceCreateForeignCoachForbidden(t *testing.T) {
	svc := NewTeamService(&stubTeamRepo{}, memberExists(), nil, testLogger())

	input := teamInput()
	_, err := svc.Create(context.Background(), 99, models.RoleCoach, input)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	// Админу ограничение не мешает.
	teamRepo := &stubTeamRepo{CreateFn: func(ctx context.Context, team *models.Team) error { return nil }}
	svc = NewTeamService(teamRepo, memberExists(), nil, testLogger())
	_, err = svc.Create(context.Background(), 99, models.RoleAdmin, input)
	assert.NoError(t, err)
}

func TestTeamServiceCreateValidation(t *testing.T) {
	svc := NewTeamService(&stubTeamRepo{}, memberExists(), nil, testLogger())

	input := teamInput()
	input.Name = "   "
	_, err := svc.Create(context.Background(), 12, models.RoleCoach, input)
	assert.ErrorIs(t, err, ErrTeamNameRequired)
}

// Ссылки на капитана и тренера уходят в директорию без внешних ключей:
// ошибка проверки приравнивается к отсутствию.
func TestTeamServiceCreateFailClosedDirectoryCheck(t *testing.T) {
	memberRepo := &stubMemberRepo{ExistsFn: func(ctx context.Context, id int) (bool, error) {
		if id == 11 {
			return false, errors.New("directory unavailable")
		}
		return true, nil
	}}

	svc := NewTeamService(&stubTeamRepo{}, memberRepo, nil, testLogger())

	_, err := svc.Create(context.Background(), 12, models.RoleCoach, teamInput())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestTeamServiceCreateNameConflict(t *testing.T) {
	teamRepo := &stubTeamRepo{CreateFn: func(ctx context.Context, team *models.Team) error {
		return repositories.ErrTeamNameConflict
	}}

	svc := NewTeamService(teamRepo, memberExists(), nil, testLogger())

	_, err := svc.Create(context.Background(), 12, models.RoleCoach, teamInput())
	assert.ErrorIs(t, err, ErrTeamNameConflict)
}

func TestTeamServiceUpdateAuthorization(t *testing.T) {
	teamRepo := &stubTeamRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, Name: "Falcons", CaptainID: 11, CoachID: 12}, nil
		},
		UpdateFn: func(ctx context.Context, team *models.Team) error { return nil },
	}

	svc := NewTeamService(teamRepo, memberExists(), nil, testLogger())

	_, err := svc.Update(context.Background(), 99, models.RoleCoach, 8, teamInput())
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = svc.Update(context.Background(), 12, models.RoleCoach, 8, teamInput())
	assert.NoError(t, err)

	_, err = svc.Update(context.Background(), 99, models.RoleAdmin, 8, teamInput())
	assert.NoError(t, err)
}

func TestTeamServiceDeleteInUse(t *testing.T) {
	teamRepo := &stubTeamRepo{
		GetByIDFn: func(ctx context.Context, id int) (*models.Team, error) {
			return &models.Team{ID: id, CoachID: 12}, nil
		},
		DeleteFn: func(ctx context.Context, id int) error { return repositories.ErrTeamInUse },
	}

	svc := NewTeamService(teamRepo, memberExists(), nil, testLogger())

	err := svc.Delete(context.Background(), 12, models.RoleCoach, 8)
	assert.ErrorIs(t, err, ErrTeamInUse)
}
