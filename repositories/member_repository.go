package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sportleague/league-system/models"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberEmailConflict = errors.New("member email is already in use")
	ErrLoginNotFound       = errors.New("login not found")
	ErrLoginConflict       = errors.New("login entry already exists for this member")
)

// MemberRepository — единственный репозиторий, смотрящий в директорию CIMS.
// Members, Login и MemberGroupMapping живут в одной схеме, поэтому
// процедура условного удаления может пройти одной транзакцией.
type MemberRepository interface {
	Create(ctx context.Context, exec SQLExecutor, member *models.Member) error
	GetByID(ctx context.Context, id int) (*models.Member, error)
	Exists(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) (int64, error)

	CreateLogin(ctx context.Context, exec SQLExecutor, login *models.Login) error
	GetLogin(ctx context.Context, memberID int) (*models.Login, error)
	DeleteLogin(ctx context.Context, exec SQLExecutor, memberID int) (int64, error)

	CountGroupMappings(ctx context.Context, exec SQLExecutor, memberID int) (int, error)
	DeleteGroupMapping(ctx context.Context, exec SQLExecutor, memberID, groupID int) (int64, error)
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

func (r *postgresMemberRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMemberRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Member) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO members (user_name, email_id, dob) VALUES ($1, $2, $3) RETURNING id`

	err := executor.QueryRowContext(ctx, query, m.Name, m.Email, m.DoB).Scan(&m.ID)
	return r.handleMemberError(err)
}

func (r *postgresMemberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `SELECT id, user_name, email_id, dob FROM members WHERE id = $1`

	m := &models.Member{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.Email, &m.DoB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMemberRepository) Exists(ctx context.Context, id int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM members WHERE id = $1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete возвращает число удалённых строк: ноль — не ошибка, а сигнал
// для вызывающего (гонка при условном удалении фиксируется отдельно).
func (r *postgresMemberRepository) Delete(ctx context.Context, exec SQLExecutor, id int) (int64, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresMemberRepository) CreateLogin(ctx context.Context, exec SQLExecutor, login *models.Login) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO login (member_id, password, role) VALUES ($1, $2, $3)`

	_, err := executor.ExecContext(ctx, query, login.MemberID, login.PasswordHash, login.Role)
	return r.handleMemberError(err)
}

func (r *postgresMemberRepository) GetLogin(ctx context.Context, memberID int) (*models.Login, error) {
	query := `SELECT member_id, password, role FROM login WHERE member_id = $1`

	login := &models.Login{}
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&login.MemberID, &login.PasswordHash, &login.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLoginNotFound
		}
		return nil, err
	}
	return login, nil
}

func (r *postgresMemberRepository) DeleteLogin(ctx context.Context, exec SQLExecutor, memberID int) (int64, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM login WHERE member_id = $1`, memberID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresMemberRepository) CountGroupMappings(ctx context.Context, exec SQLExecutor, memberID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM member_group_mapping WHERE member_id = $1`, memberID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresMemberRepository) DeleteGroupMapping(ctx context.Context, exec SQLExecutor, memberID, groupID int) (int64, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM member_group_mapping WHERE member_id = $1 AND group_id = $2`, memberID, groupID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresMemberRepository) handleMemberError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "members_email_id_key":
			return ErrMemberEmailConflict
		case "login_pkey", "login_member_id_key":
			return ErrLoginConflict
		}
	}
	return err
}
