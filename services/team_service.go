package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
	"github.com/sportleague/league-system/storage"
)

type TeamInput struct {
	Name      string `json:"name"`
	CaptainID int    `json:"captain_id"`
	CoachID   int    `json:"coach_id"`
}

type TeamService interface {
	Create(ctx context.Context, actorID int, actorRole models.Role, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, actorID int, actorRole models.Role, id int, input TeamInput) (*models.Team, error)
	Delete(ctx context.Context, actorID int, actorRole models.Role, id int) error
	UploadLogo(ctx context.Context, actorID int, actorRole models.Role, teamID int, file io.Reader, contentType string) (*models.Team, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	memberRepo repositories.MemberRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	memberRepo repositories.MemberRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *teamService) Create(ctx context.Context, actorID int, actorRole models.Role, input TeamInput) (*models.Team, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}
	// Тренер заводит только собственные команды; админ — любые.
	if actorRole != models.RoleAdmin && input.CoachID != actorID {
		return nil, ErrForbiddenOperation
	}

	team := &models.Team{
		Name:      strings.TrimSpace(input.Name),
		CaptainID: input.CaptainID,
		CoachID:   input.CoachID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		populateTeamLogoURL(&teams[i], s.uploader)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, actorID int, actorRole models.Role, id int, input TeamInput) (*models.Team, error) {
	team, err := s.authorizeTeamAction(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	team.Name = strings.TrimSpace(input.Name)
	team.CaptainID = input.CaptainID
	team.CoachID = input.CoachID

	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, actorID int, actorRole models.Role, id int) error {
	team, err := s.authorizeTeamAction(ctx, actorID, actorRole, id)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, team.ID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamInUse):
			return ErrTeamInUse
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}

	if team.LogoKey != nil && *team.LogoKey != "" && s.uploader != nil {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete team logo from storage",
				slog.Int("team_id", team.ID),
				slog.String("logo_key", *team.LogoKey),
				slog.Any("error", delErr))
		}
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, actorID int, actorRole models.Role, teamID int, file io.Reader, contentType string) (*models.Team, error) {
	team, err := s.authorizeTeamAction(ctx, actorID, actorRole, teamID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("file storage is not configured")
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := team.LogoKey
	key := fmt.Sprintf("teams/%d/logo%s", team.ID, ext)

	uploadedKey, err := s.uploader.Upload(ctx, file, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, team.ID, &uploadedKey); err != nil {
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" && *oldKey != uploadedKey {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete previous team logo",
				slog.Int("team_id", team.ID),
				slog.String("logo_key", *oldKey),
				slog.Any("error", delErr))
		}
	}

	team.LogoKey = &uploadedKey
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

// authorizeTeamAction допускает админа и тренера, владеющего командой.
func (s *teamService) authorizeTeamAction(ctx context.Context, actorID int, actorRole models.Role, teamID int) (*models.Team, error) {
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
	return team, nil
}

func (s *teamService) validateInput(ctx context.Context, input TeamInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTeamNameRequired
	}
	// Капитан и тренер — ссылки в общую директорию, внешних ключей на них
	// нет: проверяем существование fail-closed.
	if !checkExists(ctx, s.logger, "member", input.CaptainID, s.memberRepo.Exists) {
		return fmt.Errorf("%w: captain %d", ErrMemberNotFound, input.CaptainID)
	}
	if !checkExists(ctx, s.logger, "member", input.CoachID, s.memberRepo.Exists) {
		return fmt.Errorf("%w: coach %d", ErrMemberNotFound, input.CoachID)
	}
	return nil
}
