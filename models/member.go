package models

import "time"

// Role соответствует строковым значениям колонки Role в таблице Login
// директории CIMS. Набор фиксированный, но расширяемый: новые роли
// добавляются константой плюс записью в нужные allow-списки сервисов.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCoach     Role = "Coach"
	RolePlayer    Role = "Player"
	RoleOrganizer Role = "Organizer"
	RoleReferee   Role = "Referee"
	RoleEqManager Role = "EqManager"
	RoleUser      Role = "user"
)

// In reports whether the role is a member of the allow-set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Member — запись участника в общей директории CIMS. Директорией владеют
// несколько систем совместно, поэтому наша система никогда не создаёт и не
// удаляет члена напрямую, кроме процедуры условного удаления.
type Member struct {
	ID    int        `json:"id" db:"id"`
	Name  string     `json:"name" db:"user_name"`
	Email string     `json:"email" db:"email_id"`
	DoB   *time.Time `json:"dob,omitempty" db:"dob"`
}

// Login — учётная запись члена (ровно одна на Member) в директории.
type Login struct {
	MemberID     int    `json:"member_id" db:"member_id"`
	PasswordHash string `json:"-" db:"password"`
	Role         Role   `json:"role" db:"role"`
}

// GroupMapping связывает члена директории с группой-владельцем.
// Используется только процедурой условного удаления.
type GroupMapping struct {
	MemberID int `json:"member_id" db:"member_id"`
	GroupID  int `json:"group_id" db:"group_id"`
}

type Credentials struct {
	MemberID int    `json:"member_id"`
	Password string `json:"password"`
}
