package models

import "time"

// Slot — перечислимая метка временного окна, делящая игровой день для
// детектора конфликтов расписания.
type Slot string

const (
	SlotMorning   Slot = "Morning"
	SlotAfternoon Slot = "Afternoon"
	SlotEvening   Slot = "Evening"
)

func (s Slot) Valid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

// Match создаётся в состоянии Scheduled (счёт 0:0, победитель не задан).
// Обновление счёта переводит его в Scored; повторное обновление просто
// перезаписывает счёт и победителя.
type Match struct {
	ID         int       `json:"id" db:"id"`
	EventID    int       `json:"event_id" db:"event_id"`
	Team1ID    int       `json:"team1_id" db:"team1_id"`
	Team2ID    int       `json:"team2_id" db:"team2_id"`
	Date       time.Time `json:"date" db:"match_date"`
	Slot       Slot      `json:"slot" db:"slot"`
	VenueID    int       `json:"venue_id" db:"venue_id"`
	Team1Score int       `json:"team1_score" db:"team1_score"`
	Team2Score int       `json:"team2_score" db:"team2_score"`
	WinnerID   *int      `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// MatchDetails — представление матча для выдачи наружу, с именами
// связанных сущностей из JOIN-ов.
type MatchDetails struct {
	Match
	EventName  string  `json:"event_name"`
	Team1Name  string  `json:"team1_name"`
	Team2Name  string  `json:"team2_name"`
	VenueName  string  `json:"venue_name"`
	WinnerName *string `json:"winner_name,omitempty"`
}
