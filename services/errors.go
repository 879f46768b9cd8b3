package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid member id or password")
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrVenueNameRequired     = errors.New("venue name is required")
	ErrEventNameRequired     = errors.New("event name is required")
	ErrEquipmentNameRequired = errors.New("equipment name is required")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки событий
	ErrEventInvalidDateRange = errors.New("event end date must be after start date")
	ErrEventNotOpen          = errors.New("event has already started, operation is closed")
	ErrEventNotFound         = errors.New("event not found")

	// Ошибки команд и игроков
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name is already in use")
	ErrTeamInUse           = errors.New("team is referenced by players, registrations or matches")
	ErrMemberNotFound      = errors.New("member not found")
	ErrRosterFull          = errors.New("team roster for this event is full")
	ErrPlayerAlreadyInTeam = errors.New("member already plays for a team in this event")
	ErrPlayerNotFound      = errors.New("player not found on this team for this event")
	ErrInvalidPosition     = errors.New("invalid player position")

	// Ошибки регистраций
	ErrRegistrationConflict = errors.New("team is already registered for this event")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrEventInUse           = errors.New("event is referenced by registrations, players or matches")

	// Ошибки матчей
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchSameTeam      = errors.New("a team cannot play against itself")
	ErrMatchInvalidSlot   = errors.New("invalid slot value")
	ErrMatchInvalidScore  = errors.New("scores must be non-negative")
	ErrMatchInvalidWinner = errors.New("winner must be one of the participating teams")
	ErrVenueNotFound      = errors.New("venue not found")
	ErrVenueNameConflict  = errors.New("venue name is already in use")
	ErrVenueInUse         = errors.New("venue is referenced by matches")

	// Ошибки инвентаря
	ErrEquipmentNotFound         = errors.New("equipment not found")
	ErrEquipmentNotAvailable     = errors.New("equipment is not available")
	ErrEquipmentPoorCondition    = errors.New("equipment is in poor condition, cannot issue")
	ErrEquipmentInvalidCondition = errors.New("invalid equipment condition")
	ErrEquipmentLogNotFound      = errors.New("equipment log not found")
	ErrEquipmentAlreadyReturned  = errors.New("equipment has already been returned")
	ErrEquipmentInUse            = errors.New("equipment has issue history and cannot be deleted")

	// Ошибки членов директории
	ErrMemberEmailConflict = errors.New("member email is already in use")
	ErrLoginConflict       = errors.New("login entry already exists for this member")
)

// ScheduleConflictError — конфликт расписания с формулировкой для клиента.
// Текст сообщения — часть контракта API, поэтому хранится целиком.
type ScheduleConflictError struct {
	Message string
}

func (e *ScheduleConflictError) Error() string {
	return e.Message
}
