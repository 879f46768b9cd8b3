package services

import (
	"context"
	"time"

	"github.com/sportleague/league-system/models"
	"github.com/sportleague/league-system/repositories"
)

// Заглушки репозиториев с функциональными полями: каждый тест задаёт
// только то поведение, которое ему нужно.

type stubTxManager struct {
	beginErr error
	calls    int
}

func (m *stubTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.calls++
	if m.beginErr != nil {
		return m.beginErr
	}
	return fn(nil)
}

type stubMemberRepo struct {
	CreateFn             func(ctx context.Context, exec repositories.SQLExecutor, m *models.Member) error
	GetByIDFn            func(ctx context.Context, id int) (*models.Member, error)
	ExistsFn             func(ctx context.Context, id int) (bool, error)
	DeleteFn             func(ctx context.Context, exec repositories.SQLExecutor, id int) (int64, error)
	CreateLoginFn        func(ctx context.Context, exec repositories.SQLExecutor, l *models.Login) error
	GetLoginFn           func(ctx context.Context, memberID int) (*models.Login, error)
	DeleteLoginFn        func(ctx context.Context, exec repositories.SQLExecutor, memberID int) (int64, error)
	CountGroupMappingsFn func(ctx context.Context, exec repositories.SQLExecutor, memberID int) (int, error)
	DeleteGroupMappingFn func(ctx context.Context, exec repositories.SQLExecutor, memberID, groupID int) (int64, error)
}

func (s *stubMemberRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Member) error {
	return s.CreateFn(ctx, exec, m)
}

func (s *stubMemberRepo) GetByID(ctx context.Context, id int) (*models.Member, error) {
	return s.GetByIDFn(ctx, id)
}

func (s *stubMemberRepo) Exists(ctx context.Context, id int) (bool, error) {
	return s.ExistsFn(ctx, id)
}

func (s *stubMemberRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) (int64, error) {
	return s.DeleteFn(ctx, exec, id)
}

func (s *stubMemberRepo) CreateLogin(ctx context.Context, exec repositories.SQLExecutor, l *models.Login) error {
	return s.CreateLoginFn(ctx, exec, l)
}

func (s *stubMemberRepo) GetLogin(ctx context.Context, memberID int) (*models.Login, error) {
	return s.GetLoginFn(ctx, memberID)
}

func (s *stubMemberRepo) DeleteLogin(ctx context.Context, exec repositories.SQLExecutor, memberID int) (int64, error) {
	return s.DeleteLoginFn(ctx, exec, memberID)
}

func (s *stubMemberRepo) CountGroupMappings(ctx context.Context, exec repositories.SQLExecutor, memberID int) (int, error) {
	return s.CountGroupMappingsFn(ctx, exec, memberID)
}

func (s *stubMemberRepo) DeleteGroupMapping(ctx context.Context, exec repositories.SQLExecutor, memberID, groupID int) (int64, error) {
	return s.DeleteGroupMappingFn(ctx, exec, memberID, groupID)
}

type stubTeamRepo struct {
	CreateFn        func(ctx context.Context, t *models.Team) error
	GetByIDFn       func(ctx context.Context, id int) (*models.Team, error)
	ListFn          func(ctx context.Context) ([]models.Team, error)
	UpdateFn        func(ctx context.Context, t *models.Team) error
	UpdateLogoKeyFn func(ctx context.Context, teamID int, logoKey *string) error
	DeleteFn        func(ctx context.Context, id int) error
	ExistsFn        func(ctx context.Context, id int) (bool, error)
}

func (s *stubTeamRepo) Create(ctx context.Context, t *models.Team) error { return s.CreateFn(ctx, t) }
func (s *stubTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return s.GetByIDFn(ctx, id)
}
func (s *stubTeamRepo) List(ctx context.Context) ([]models.Team, error) { return s.ListFn(ctx) }
func (s *stubTeamRepo) Update(ctx context.Context, t *models.Team) error {
	return s.UpdateFn(ctx, t)
}
func (s *stubTeamRepo) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	return s.UpdateLogoKeyFn(ctx, teamID, logoKey)
}
func (s *stubTeamRepo) Delete(ctx context.Context, id int) error { return s.DeleteFn(ctx, id) }
func (s *stubTeamRepo) Exists(ctx context.Context, id int) (bool, error) {
	return s.ExistsFn(ctx, id)
}

type stubEventRepo struct {
	CreateFn  func(ctx context.Context, e *models.Event) error
	GetByIDFn func(ctx context.Context, id int) (*models.Event, error)
	ListFn    func(ctx context.Context) ([]models.Event, error)
	UpdateFn  func(ctx context.Context, e *models.Event) error
	DeleteFn  func(ctx context.Context, id int) error
	ExistsFn  func(ctx context.Context, id int) (bool, error)
}

func (s *stubEventRepo) Create(ctx context.Context, e *models.Event) error {
	return s.CreateFn(ctx, e)
}
func (s *stubEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	return s.GetByIDFn(ctx, id)
}
func (s *stubEventRepo) List(ctx context.Context) ([]models.Event, error) { return s.ListFn(ctx) }
func (s *stubEventRepo) Update(ctx context.Context, e *models.Event) error {
	return s.UpdateFn(ctx, e)
}
func (s *stubEventRepo) Delete(ctx context.Context, id int) error { return s.DeleteFn(ctx, id) }
func (s *stubEventRepo) Exists(ctx context.Context, id int) (bool, error) {
	return s.ExistsFn(ctx, id)
}

type stubRegistrationRepo struct {
	CreateFn      func(ctx context.Context, reg *models.Registration) error
	DeleteFn      func(ctx context.Context, eventID, teamID int) error
	ListByEventFn func(ctx context.Context, eventID int) ([]models.RegisteredTeam, error)
}

func (s *stubRegistrationRepo) Create(ctx context.Context, reg *models.Registration) error {
	return s.CreateFn(ctx, reg)
}

func (s *stubRegistrationRepo) Delete(ctx context.Context, eventID, teamID int) error {
	return s.DeleteFn(ctx, eventID, teamID)
}

func (s *stubRegistrationRepo) ListByEvent(ctx context.Context, eventID int) ([]models.RegisteredTeam, error) {
	return s.ListByEventFn(ctx, eventID)
}

type stubPlayerRepo struct {
	CreateFn           func(ctx context.Context, p *models.Player) error
	CountByTeamEventFn func(ctx context.Context, teamID, eventID int) (int, error)
	ListByTeamEventFn  func(ctx context.Context, teamID, eventID int) ([]models.Player, error)
	DeleteFn           func(ctx context.Context, memberID, teamID, eventID int) error
}

func (s *stubPlayerRepo) Create(ctx context.Context, p *models.Player) error {
	return s.CreateFn(ctx, p)
}

func (s *stubPlayerRepo) CountByTeamEvent(ctx context.Context, teamID, eventID int) (int, error) {
	return s.CountByTeamEventFn(ctx, teamID, eventID)
}

func (s *stubPlayerRepo) ListByTeamEvent(ctx context.Context, teamID, eventID int) ([]models.Player, error) {
	return s.ListByTeamEventFn(ctx, teamID, eventID)
}

func (s *stubPlayerRepo) Delete(ctx context.Context, memberID, teamID, eventID int) error {
	return s.DeleteFn(ctx, memberID, teamID, eventID)
}

type stubVenueRepo struct {
	CreateFn  func(ctx context.Context, v *models.Venue) error
	GetByIDFn func(ctx context.Context, id int) (*models.Venue, error)
	ListFn    func(ctx context.Context) ([]models.Venue, error)
	UpdateFn  func(ctx context.Context, v *models.Venue) error
	DeleteFn  func(ctx context.Context, id int) error
	ExistsFn  func(ctx context.Context, id int) (bool, error)
}

func (s *stubVenueRepo) Create(ctx context.Context, v *models.Venue) error {
	return s.CreateFn(ctx, v)
}
func (s *stubVenueRepo) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	return s.GetByIDFn(ctx, id)
}
func (s *stubVenueRepo) List(ctx context.Context) ([]models.Venue, error) { return s.ListFn(ctx) }
func (s *stubVenueRepo) Update(ctx context.Context, v *models.Venue) error {
	return s.UpdateFn(ctx, v)
}
func (s *stubVenueRepo) Delete(ctx context.Context, id int) error { return s.DeleteFn(ctx, id) }
func (s *stubVenueRepo) Exists(ctx context.Context, id int) (bool, error) {
	return s.ExistsFn(ctx, id)
}

type stubMatchRepo struct {
	CreateFn           func(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error
	GetByIDFn          func(ctx context.Context, id int) (*models.Match, error)
	GetDetailsFn       func(ctx context.Context, id int) (*models.MatchDetails, error)
	ListFn             func(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.MatchDetails, error)
	UpdateScoreFn      func(ctx context.Context, id, t1, t2 int, winnerID *int) error
	DeleteFn           func(ctx context.Context, id int) error
	FindVenueBookingFn func(ctx context.Context, exec repositories.SQLExecutor, eventID int, date time.Time, slot models.Slot, venueID int, excludeMatchID *int) (*int, error)
	FindTeamBookingFn  func(ctx context.Context, exec repositories.SQLExecutor, eventID int, date time.Time, slot models.Slot, teamID int, excludeMatchID *int) (*int, error)
}

func (s *stubMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	return s.CreateFn(ctx, exec, m)
}

func (s *stubMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return s.GetByIDFn(ctx, id)
}

func (s *stubMatchRepo) GetDetails(ctx context.Context, id int) (*models.MatchDetails, error) {
	return s.GetDetailsFn(ctx, id)
}

func (s *stubMatchRepo) List(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.MatchDetails, error) {
	return s.ListFn(ctx, filter)
}

func (s *stubMatchRepo) UpdateScore(ctx context.Context, id, t1, t2 int, winnerID *int) error {
	return s.UpdateScoreFn(ctx, id, t1, t2, winnerID)
}

func (s *stubMatchRepo) Delete(ctx context.Context, id int) error {
	return s.DeleteFn(ctx, id)
}

func (s *stubMatchRepo) FindVenueBooking(ctx context.Context, exec repositories.SQLExecutor, eventID int, date time.Time, slot models.Slot, venueID int, excludeMatchID *int) (*int, error) {
	return s.FindVenueBookingFn(ctx, exec, eventID, date, slot, venueID, excludeMatchID)
}

func (s *stubMatchRepo) FindTeamBooking(ctx context.Context, exec repositories.SQLExecutor, eventID int, date time.Time, slot models.Slot, teamID int, excludeMatchID *int) (*int, error) {
	return s.FindTeamBookingFn(ctx, exec, eventID, date, slot, teamID, excludeMatchID)
}

type stubEquipmentRepo struct {
	CreateFn             func(ctx context.Context, eq *models.Equipment) error
	GetByIDFn            func(ctx context.Context, id int) (*models.Equipment, error)
	GetByIDForUpdateFn   func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Equipment, error)
	ListFn               func(ctx context.Context, onlyAvailable bool) ([]models.Equipment, error)
	UpdateFn             func(ctx context.Context, eq *models.Equipment) error
	UpdateAvailabilityFn func(ctx context.Context, exec repositories.SQLExecutor, id int, available bool, condition *models.Condition) error
	DeleteFn             func(ctx context.Context, id int) error
	ExistsFn             func(ctx context.Context, id int) (bool, error)
	CreateLogFn          func(ctx context.Context, exec repositories.SQLExecutor, log *models.EquipmentLog) error
	GetLogByIDFn         func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.EquipmentLog, error)
	MarkLogReturnedFn    func(ctx context.Context, exec repositories.SQLExecutor, logID int, returnedAt time.Time) error
	ListLogsFn           func(ctx context.Context, filter repositories.ListEquipmentLogsFilter) ([]models.EquipmentLogDetails, error)
}

func (s *stubEquipmentRepo) Create(ctx context.Context, eq *models.Equipment) error {
	return s.CreateFn(ctx, eq)
}

func (s *stubEquipmentRepo) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	return s.GetByIDFn(ctx, id)
}

func (s *stubEquipmentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Equipment, error) {
	return s.GetByIDForUpdateFn(ctx, exec, id)
}

func (s *stubEquipmentRepo) List(ctx context.Context, onlyAvailable bool) ([]models.Equipment, error) {
	return s.ListFn(ctx, onlyAvailable)
}

func (s *stubEquipmentRepo) Update(ctx context.Context, eq *models.Equipment) error {
	return s.UpdateFn(ctx, eq)
}

func (s *stubEquipmentRepo) UpdateAvailability(ctx context.Context, exec repositories.SQLExecutor, id int, available bool, condition *models.Condition) error {
	return s.UpdateAvailabilityFn(ctx, exec, id, available, condition)
}

func (s *stubEquipmentRepo) Delete(ctx context.Context, id int) error {
	return s.DeleteFn(ctx, id)
}

func (s *stubEquipmentRepo) Exists(ctx context.Context, id int) (bool, error) {
	return s.ExistsFn(ctx, id)
}

func (s *stubEquipmentRepo) CreateLog(ctx context.Context, exec repositories.SQLExecutor, log *models.EquipmentLog) error {
	return s.CreateLogFn(ctx, exec, log)
}

func (s *stubEquipmentRepo) GetLogByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.EquipmentLog, error) {
	return s.GetLogByIDFn(ctx, exec, id)
}

func (s *stubEquipmentRepo) MarkLogReturned(ctx context.Context, exec repositories.SQLExecutor, logID int, returnedAt time.Time) error {
	return s.MarkLogReturnedFn(ctx, exec, logID, returnedAt)
}

func (s *stubEquipmentRepo) ListLogs(ctx context.Context, filter repositories.ListEquipmentLogsFilter) ([]models.EquipmentLogDetails, error) {
	return s.ListLogsFn(ctx, filter)
}

type recordingBroadcaster struct {
	rooms    []string
	messages []interface{}
}

func (b *recordingBroadcaster) BroadcastToRoom(room string, message interface{}) {
	b.rooms = append(b.rooms, room)
	b.messages = append(b.messages, message)
}
