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
	"golang.org/x/crypto/bcrypt"
)

type CreateMemberInput struct {
	Name  string     `json:"name"`
	Email string     `json:"email"`
	DoB   *time.Time `json:"dob,omitempty"`
}

// DeletionReport — результат процедуры условного удаления. Outcome:
//
//	deleted  — член не принадлежал другим группам, удалён вместе с login;
//	unlinked — член принадлежит другим группам, снята только наша привязка;
//	noop     — привязки к нашей группе не было, ничего не изменилось;
//	anomaly  — член исчез между проверкой и удалением (гонка).
type DeletionReport struct {
	Outcome         string `json:"outcome"`
	RemovedMembers  int64  `json:"removed_members"`
	RemovedLogins   int64  `json:"removed_logins"`
	RemovedMappings int64  `json:"removed_mappings"`
}

type MemberService interface {
	Create(ctx context.Context, input CreateMemberInput) (*models.Member, error)
	GetProfile(ctx context.Context, memberID int) (*models.Member, error)
	Delete(ctx context.Context, memberID int) (*DeletionReport, error)
}

type memberService struct {
	memberRepo      repositories.MemberRepository
	txManager       repositories.TxManager
	groupID         int
	defaultPassword string
	logger          *slog.Logger
}

func NewMemberService(
	memberRepo repositories.MemberRepository,
	txManager repositories.TxManager,
	groupID int,
	defaultPassword string,
	logger *slog.Logger,
) MemberService {
	return &memberService{
		memberRepo:      memberRepo,
		txManager:       txManager,
		groupID:         groupID,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// Create регистрирует члена в директории и заводит ему login с паролем по
// умолчанию и ролью user. Обе записи создаются в одной транзакции.
func (s *memberService) Create(ctx context.Context, input CreateMemberInput) (*models.Member, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidationFailed)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}

	member := &models.Member{
		Name:  name,
		Email: email,
		DoB:   input.DoB,
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if createErr := s.memberRepo.Create(ctx, exec, member); createErr != nil {
			return createErr
		}
		login := &models.Login{
			MemberID:     member.ID,
			PasswordHash: string(hashed),
			Role:         models.RoleUser,
		}
		return s.memberRepo.CreateLogin(ctx, exec, login)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMemberEmailConflict):
			return nil, ErrMemberEmailConflict
		case errors.Is(err, repositories.ErrLoginConflict):
			return nil, ErrLoginConflict
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

func (s *memberService) GetProfile(ctx context.Context, memberID int) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// Delete выполняет условное удаление: директорию делят несколько систем,
// поэтому сперва считаются привязки члена к другим группам, и только
// «ничейный» член удаляется физически.
func (s *memberService) Delete(ctx context.Context, memberID int) (*DeletionReport, error) {
	exists, err := s.memberRepo.Exists(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check member: %w", err)
	}
	if !exists {
		return nil, ErrMemberNotFound
	}

	report := &DeletionReport{}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		mappings, countErr := s.memberRepo.CountGroupMappings(ctx, exec, memberID)
		if countErr != nil {
			return fmt.Errorf("failed to count group mappings: %w", countErr)
		}

		if mappings == 0 {
			// Членом не владеет ни одна группа: сначала login (FK), затем
			// сама запись члена.
			logins, delErr := s.memberRepo.DeleteLogin(ctx, exec, memberID)
			if delErr != nil {
				return fmt.Errorf("failed to delete login: %w", delErr)
			}
			report.RemovedLogins = logins

			members, delErr := s.memberRepo.Delete(ctx, exec, memberID)
			if delErr != nil {
				return fmt.Errorf("failed to delete member: %w", delErr)
			}
			report.RemovedMembers = members

			if members == 0 {
				// Запись исчезла между проверкой и удалением.
				report.Outcome = "anomaly"
				s.logger.WarnContext(ctx, "member vanished during conditional deletion",
					slog.Int("member_id", memberID))
				return nil
			}
			report.Outcome = "deleted"
			return nil
		}

		// Член принадлежит другим группам: снимаем только нашу привязку.
		removed, delErr := s.memberRepo.DeleteGroupMapping(ctx, exec, memberID, s.groupID)
		if delErr != nil {
			return fmt.Errorf("failed to delete group mapping: %w", delErr)
		}
		report.RemovedMappings = removed
		if removed == 0 {
			report.Outcome = "noop"
		} else {
			report.Outcome = "unlinked"
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "conditional member deletion finished",
		slog.Int("member_id", memberID),
		slog.String("outcome", report.Outcome),
		slog.Int64("removed_members", report.RemovedMembers),
		slog.Int64("removed_logins", report.RemovedLogins),
		slog.Int64("removed_mappings", report.RemovedMappings))

	return report, nil
}
