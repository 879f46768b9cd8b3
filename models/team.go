package models

import "time"

// Team принадлежит проектной схеме; CaptainID и CoachID ссылаются на членов
// директории CIMS, поэтому внешних ключей на них нет — только проверки
// существования перед записью.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CaptainID int       `json:"captain_id" db:"captain_id"`
	CoachID   int       `json:"coach_id" db:"coach_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// Player — событийно-скоупленная связь члена с командой: один член играет
// не более чем за одну команду в рамках события (UNIQUE(member_id, event_id)).
type Player struct {
	ID       int     `json:"id" db:"id"`
	MemberID int     `json:"member_id" db:"member_id"`
	TeamID   int     `json:"team_id" db:"team_id"`
	EventID  int     `json:"event_id" db:"event_id"`
	Position *string `json:"position,omitempty" db:"position"`
}
