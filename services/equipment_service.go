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

type EquipmentInput struct {
	Name        string           `json:"name"`
	IsAvailable *bool            `json:"is_available,omitempty"`
	Condition   models.Condition `json:"condition"`
	LastChecked *time.Time       `json:"last_checked,omitempty"`
}

type ReturnEquipmentInput struct {
	Condition *models.Condition `json:"condition,omitempty"`
}

type EquipmentService interface {
	Create(ctx context.Context, input EquipmentInput) (*models.Equipment, error)
	GetByID(ctx context.Context, id int) (*models.Equipment, error)
	List(ctx context.Context, onlyAvailable bool) ([]models.Equipment, error)
	Update(ctx context.Context, id int, input EquipmentInput) (*models.Equipment, error)
	Delete(ctx context.Context, id int) error

	Borrow(ctx context.Context, equipmentID, memberID int) (*models.EquipmentLog, error)
	Return(ctx context.Context, logID int, input ReturnEquipmentInput) (*models.EquipmentLog, error)
	ListLogs(ctx context.Context, filter repositories.ListEquipmentLogsFilter) ([]models.EquipmentLogDetails, error)
}

type equipmentService struct {
	equipmentRepo repositories.EquipmentRepository
	memberRepo    repositories.MemberRepository
	txManager     repositories.TxManager
	now           func() time.Time
	logger        *slog.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepository,
	memberRepo repositories.MemberRepository,
	txManager repositories.TxManager,
	logger *slog.Logger,
) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		memberRepo:    memberRepo,
		txManager:     txManager,
		now:           time.Now,
		logger:        logger,
	}
}

func (s *equipmentService) Create(ctx context.Context, input EquipmentInput) (*models.Equipment, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEquipmentNameRequired
	}
	if !input.Condition.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrEquipmentInvalidCondition, input.Condition)
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	eq := &models.Equipment{
		Name:        strings.TrimSpace(input.Name),
		IsAvailable: available,
		Condition:   input.Condition,
		LastChecked: input.LastChecked,
	}
	if err := s.equipmentRepo.Create(ctx, eq); err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	return eq, nil
}

func (s *equipmentService) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEquipmentNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	return eq, nil
}

func (s *equipmentService) List(ctx context.Context, onlyAvailable bool) ([]models.Equipment, error) {
	items, err := s.equipmentRepo.List(ctx, onlyAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return items, nil
}

func (s *equipmentService) Update(ctx context.Context, id int, input EquipmentInput) (*models.Equipment, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEquipmentNameRequired
	}
	if !input.Condition.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrEquipmentInvalidCondition, input.Condition)
	}

	eq, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEquipmentNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	eq.Name = strings.TrimSpace(input.Name)
	eq.Condition = input.Condition
	if input.IsAvailable != nil {
		eq.IsAvailable = *input.IsAvailable
	}
	if input.LastChecked != nil {
		eq.LastChecked = input.LastChecked
	}

	if err := s.equipmentRepo.Update(ctx, eq); err != nil {
		if errors.Is(err, repositories.ErrEquipmentNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}
	return eq, nil
}

func (s *equipmentService) Delete(ctx context.Context, id int) error {
	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEquipmentNotFound):
			return ErrEquipmentNotFound
		case errors.Is(err, repositories.ErrEquipmentInUse):
			return ErrEquipmentInUse
		}
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	return nil
}

// issuable — предикат выдачи. Порядок проверок фиксированный: сначала
// доступность, затем состояние, чтобы клиент получал стабильную причину
// отказа.
func issuable(eq *models.Equipment) error {
	if !eq.IsAvailable {
		return ErrEquipmentNotAvailable
	}
	if eq.Condition == models.ConditionPoor {
		return ErrEquipmentPoorCondition
	}
	return nil
}

// Borrow выдаёт инвентарь: предикат перепроверяется внутри транзакции под
// блокировкой строки, затем пишется открытая запись журнала и снимается
// флаг доступности. Частичный уникальный индекс по открытым записям
// страхует от двойной выдачи.
func (s *equipmentService) Borrow(ctx context.Context, equipmentID, memberID int) (*models.EquipmentLog, error) {
	if !checkExists(ctx, s.logger, "member", memberID, s.memberRepo.Exists) {
		return nil, fmt.Errorf("%w: member %d", ErrMemberNotFound, memberID)
	}

	log := &models.EquipmentLog{
		EquipmentID: equipmentID,
		IssuedTo:    memberID,
		IssuedAt:    s.now(),
	}

	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		eq, getErr := s.equipmentRepo.GetByIDForUpdate(ctx, exec, equipmentID)
		if getErr != nil {
			return getErr
		}
		if issueErr := issuable(eq); issueErr != nil {
			return issueErr
		}
		if logErr := s.equipmentRepo.CreateLog(ctx, exec, log); logErr != nil {
			return logErr
		}
		return s.equipmentRepo.UpdateAvailability(ctx, exec, equipmentID, false, nil)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEquipmentNotFound):
			return nil, ErrEquipmentNotFound
		case errors.Is(err, repositories.ErrEquipmentAlreadyIssued):
			return nil, ErrEquipmentNotAvailable
		case errors.Is(err, ErrEquipmentNotAvailable), errors.Is(err, ErrEquipmentPoorCondition):
			return nil, err
		}
		return nil, fmt.Errorf("failed to borrow equipment: %w", err)
	}
	return log, nil
}

// Return закрывает запись журнала и возвращает инвентарь в оборот. Повторный
// возврат по той же записи — конфликт, не no-op.
func (s *equipmentService) Return(ctx context.Context, logID int, input ReturnEquipmentInput) (*models.EquipmentLog, error) {
	if input.Condition != nil && !input.Condition.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrEquipmentInvalidCondition, *input.Condition)
	}

	var log *models.EquipmentLog

	err := s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var getErr error
		log, getErr = s.equipmentRepo.GetLogByID(ctx, exec, logID)
		if getErr != nil {
			return getErr
		}
		if log.ReturnedAt != nil {
			return ErrEquipmentAlreadyReturned
		}

		returnedAt := s.now()
		if markErr := s.equipmentRepo.MarkLogReturned(ctx, exec, logID, returnedAt); markErr != nil {
			return markErr
		}
		log.ReturnedAt = &returnedAt

		return s.equipmentRepo.UpdateAvailability(ctx, exec, log.EquipmentID, true, input.Condition)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrEquipmentLogNotFound):
			return nil, ErrEquipmentLogNotFound
		case errors.Is(err, ErrEquipmentAlreadyReturned):
			return nil, ErrEquipmentAlreadyReturned
		case errors.Is(err, repositories.ErrEquipmentNotFound):
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to return equipment: %w", err)
	}
	return log, nil
}

func (s *equipmentService) ListLogs(ctx context.Context, filter repositories.ListEquipmentLogsFilter) ([]models.EquipmentLogDetails, error) {
	logs, err := s.equipmentRepo.ListLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment logs: %w", err)
	}

	// Имена получателей живут в директории — другое хранилище, JOIN
	// невозможен. Подтягиваем best-effort, кешируя в рамках запроса.
	names := make(map[int]string)
	for i := range logs {
		memberID := logs[i].IssuedTo
		if name, ok := names[memberID]; ok {
			logs[i].IssuedToName = name
			continue
		}
		member, lookupErr := s.memberRepo.GetByID(ctx, memberID)
		if lookupErr != nil {
			s.logger.WarnContext(ctx, "failed to resolve issued_to name from directory",
				slog.Int("member_id", memberID),
				slog.Any("error", lookupErr))
			continue
		}
		names[memberID] = member.Name
		logs[i].IssuedToName = member.Name
	}
	return logs, nil
}
