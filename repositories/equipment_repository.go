package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sportleague/league-system/models"
)

var (
	ErrEquipmentNotFound      = errors.New("equipment not found")
	ErrEquipmentInUse         = errors.New("equipment has issue history and cannot be deleted")
	ErrEquipmentAlreadyIssued = errors.New("equipment already has an open issue log")
	ErrEquipmentLogNotFound   = errors.New("equipment log not found")
)

type ListEquipmentLogsFilter struct {
	EquipmentID *int
	MemberID    *int
	OnlyIssued  bool
}

type EquipmentRepository interface {
	Create(ctx context.Context, eq *models.Equipment) error
	GetByID(ctx context.Context, id int) (*models.Equipment, error)
	// GetByIDForUpdate блокирует строку на время транзакции выдачи,
	// чтобы две параллельные выдачи не прошли по одному снимку.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Equipment, error)
	List(ctx context.Context, onlyAvailable bool) ([]models.Equipment, error)
	Update(ctx context.Context, eq *models.Equipment) error
	UpdateAvailability(ctx context.Context, exec SQLExecutor, id int, available bool, condition *models.Condition) error
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)

	CreateLog(ctx context.Context, exec SQLExecutor, log *models.EquipmentLog) error
	GetLogByID(ctx context.Context, exec SQLExecutor, id int) (*models.EquipmentLog, error)
	MarkLogReturned(ctx context.Context, exec SQLExecutor, logID int, returnedAt time.Time) error
	ListLogs(ctx context.Context, filter ListEquipmentLogsFilter) ([]models.EquipmentLogDetails, error)
}

type postgresEquipmentRepository struct {
	db *sql.DB
}

func NewPostgresEquipmentRepository(db *sql.DB) EquipmentRepository {
	return &postgresEquipmentRepository{db: db}
}

func (r *postgresEquipmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEquipmentRepository) Create(ctx context.Context, eq *models.Equipment) error {
	query := `
		INSERT INTO equipment (name, is_available, condition, last_checked)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, eq.Name, eq.IsAvailable, eq.Condition, eq.LastChecked).Scan(&eq.ID)
	return r.handleEquipmentError(err)
}

func (r *postgresEquipmentRepository) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	return r.getByID(ctx, r.db, id, false)
}

func (r *postgresEquipmentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Equipment, error) {
	return r.getByID(ctx, r.getExecutor(exec), id, true)
}

func (r *postgresEquipmentRepository) getByID(ctx context.Context, executor SQLExecutor, id int, forUpdate bool) (*models.Equipment, error) {
	query := `SELECT id, name, is_available, condition, last_checked FROM equipment WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	eq := &models.Equipment{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&eq.ID, &eq.Name, &eq.IsAvailable, &eq.Condition, &eq.LastChecked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return eq, nil
}

func (r *postgresEquipmentRepository) List(ctx context.Context, onlyAvailable bool) ([]models.Equipment, error) {
	query := `SELECT id, name, is_available, condition, last_checked FROM equipment`
	if onlyAvailable {
		query += " WHERE is_available = TRUE"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Equipment, 0)
	for rows.Next() {
		var eq models.Equipment
		if scanErr := rows.Scan(&eq.ID, &eq.Name, &eq.IsAvailable, &eq.Condition, &eq.LastChecked); scanErr != nil {
			return nil, scanErr
		}
		items = append(items, eq)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresEquipmentRepository) Update(ctx context.Context, eq *models.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $1, is_available = $2, condition = $3, last_checked = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, eq.Name, eq.IsAvailable, eq.Condition, eq.LastChecked, eq.ID)
	if err != nil {
		return r.handleEquipmentError(err)
	}
	return checkAffectedRows(result, ErrEquipmentNotFound)
}

func (r *postgresEquipmentRepository) UpdateAvailability(ctx context.Context, exec SQLExecutor, id int, available bool, condition *models.Condition) error {
	executor := r.getExecutor(exec)
	query := `UPDATE equipment SET is_available = $1`
	args := []interface{}{available}

	if condition != nil {
		query += ", condition = $2, last_checked = NOW() WHERE id = $3"
		args = append(args, *condition, id)
	} else {
		query += " WHERE id = $2"
		args = append(args, id)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return r.handleEquipmentError(err)
	}
	return checkAffectedRows(result, ErrEquipmentNotFound)
}

func (r *postgresEquipmentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return r.handleEquipmentError(err)
	}
	return checkAffectedRows(result, ErrEquipmentNotFound)
}

func (r *postgresEquipmentRepository) Exists(ctx context.Context, id int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM equipment WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *postgresEquipmentRepository) CreateLog(ctx context.Context, exec SQLExecutor, log *models.EquipmentLog) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO equipment_logs (equipment_id, issued_to, issued_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query, log.EquipmentID, log.IssuedTo, log.IssuedAt).Scan(&log.ID)
	return r.handleEquipmentError(err)
}

func (r *postgresEquipmentRepository) GetLogByID(ctx context.Context, exec SQLExecutor, id int) (*models.EquipmentLog, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, equipment_id, issued_to, issued_at, returned_at
		FROM equipment_logs
		WHERE id = $1`

	log := &models.EquipmentLog{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&log.ID, &log.EquipmentID, &log.IssuedTo, &log.IssuedAt, &log.ReturnedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEquipmentLogNotFound
		}
		return nil, err
	}
	return log, nil
}

func (r *postgresEquipmentRepository) MarkLogReturned(ctx context.Context, exec SQLExecutor, logID int, returnedAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE equipment_logs SET returned_at = $1 WHERE id = $2 AND returned_at IS NULL`

	result, err := executor.ExecContext(ctx, query, returnedAt, logID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEquipmentLogNotFound)
}

func (r *postgresEquipmentRepository) ListLogs(ctx context.Context, filter ListEquipmentLogsFilter) ([]models.EquipmentLogDetails, error) {
	query := `
		SELECT l.id, l.equipment_id, l.issued_to, l.issued_at, l.returned_at, e.name
		FROM equipment_logs l
		JOIN equipment e ON l.equipment_id = e.id
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.EquipmentID != nil {
		query += fmt.Sprintf(" AND l.equipment_id = $%d", argID)
		args = append(args, *filter.EquipmentID)
		argID++
	}
	if filter.MemberID != nil {
		query += fmt.Sprintf(" AND l.issued_to = $%d", argID)
		args = append(args, *filter.MemberID)
	}
	if filter.OnlyIssued {
		query += " AND l.returned_at IS NULL"
	}

	query += " ORDER BY l.issued_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.EquipmentLogDetails, 0)
	for rows.Next() {
		var d models.EquipmentLogDetails
		if scanErr := rows.Scan(&d.ID, &d.EquipmentID, &d.IssuedTo, &d.IssuedAt, &d.ReturnedAt, &d.EquipmentName); scanErr != nil {
			return nil, scanErr
		}
		logs = append(logs, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *postgresEquipmentRepository) handleEquipmentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "equipment_logs_open_key" {
				return ErrEquipmentAlreadyIssued
			}
		case "23503":
			switch pqErr.Constraint {
			case "equipment_logs_equipment_id_fkey":
				return ErrEquipmentNotFound
			default:
				return ErrEquipmentInUse
			}
		}
	}
	return err
}
