package models

import "time"

// Event представляет соревнование. Инвариант StartDate < EndDate
// проверяется при записи, а не constraint-ом в БД.
type Event struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Location    string    `json:"location" db:"location"`
	Description *string   `json:"description,omitempty" db:"description"`
	OrganizerID int       `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Registration — заявка команды на событие, уникальная по паре (event, team).
type Registration struct {
	ID      int `json:"id" db:"id"`
	EventID int `json:"event_id" db:"event_id"`
	TeamID  int `json:"team_id" db:"team_id"`
}

// RegisteredTeam — строка списка заявок с данными команды из JOIN-а.
type RegisteredTeam struct {
	RegistrationID int    `json:"registration_id"`
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name"`
	CaptainID      int    `json:"captain_id"`
	CoachID        int    `json:"coach_id"`
}
