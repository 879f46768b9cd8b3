package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportleague/league-system/handlers"
	"github.com/sportleague/league-system/middleware"
	"github.com/sportleague/league-system/models"
)

const testSecret = "test-signing-key"

// testRouter собирает полное дерево маршрутов с пустыми сервисами: до
// обработчиков запросы с неподходящей ролью не доходят, так что ролевую
// фильтрацию можно проверять без хранилищ.
func testRouter() *chi.Mux {
	router := chi.NewRouter()
	SetupRoutes(
		router,
		middleware.NewAuthenticator(testSecret),
		handlers.NewAuthHandler(nil),
		handlers.NewMemberHandler(nil),
		handlers.NewTeamHandler(nil, nil),
		handlers.NewEventHandler(nil),
		handlers.NewMatchHandler(nil),
		handlers.NewVenueHandler(nil),
		handlers.NewEquipmentHandler(nil),
		handlers.NewWebSocketHandler(nil, nil),
	)
	return router
}

func tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"member_id": 15,
		"role":      string(role),
		"iat":       now.Unix(),
		"exp":       now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, router *chi.Mux, method, target string, role models.Role) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, role))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// Заявки на событие подают админ и тренер; организатор события ими не
// распоряжается.
func TestEventRegistrationRoleFilter(t *testing.T) {
	router := testRouter()

	rec := do(t, router, http.MethodPost, "/events/5/registrations", models.RoleOrganizer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, "/events/5/registrations/10", models.RoleOrganizer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPost, "/events/5/registrations", models.RolePlayer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Тренер проходит фильтр: запрос без тела падает уже в обработчике.
	rec = do(t, router, http.MethodPost, "/events/5/registrations", models.RoleCoach)
	assert.NotEqual(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPost, "/events/5/registrations", models.RoleAdmin)
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
}

func TestScoreUpdateRoleFilter(t *testing.T) {
	router := testRouter()

	rec := do(t, router, http.MethodPut, "/matches/5/score", models.RoleCoach)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPut, "/matches/5/score", models.RoleReferee)
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
}
